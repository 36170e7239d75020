package models

type MergeRequestState string

const (
	MergeRequestStateOpened MergeRequestState = "opened"
	MergeRequestStateMerged MergeRequestState = "merged"
	MergeRequestStateClosed MergeRequestState = "closed"
)

type MergeRequest struct {
	Model
	ProjectID      int64             `json:"projectId" gorm:"not null;uniqueIndex:idx_mr_project_iid"`
	IID            int64             `json:"iid" gorm:"not null;uniqueIndex:idx_mr_project_iid"`
	Title          string            `json:"title" gorm:"type:text"`
	SourceBranch   string            `json:"sourceBranch" gorm:"type:text;not null"`
	TargetBranch   string            `json:"targetBranch" gorm:"type:text;not null"`
	DiffHeadSHA    string            `json:"diffHeadSha" gorm:"type:text"`
	DiffBaseSHA    string            `json:"diffBaseSha" gorm:"type:text"`
	MergeBaseSHA   string            `json:"mergeBaseSha" gorm:"type:text"`
	HeadPipelineID *int64            `json:"headPipelineId" gorm:"index"`
	State          MergeRequestState `json:"state" gorm:"type:text;not null;default:'opened'"`
	MergeStatus    string            `json:"mergeStatus" gorm:"type:text"`
	MergeTrain     bool              `json:"mergeTrain" gorm:"not null;default:false"`
}

func (MergeRequest) TableName() string {
	return "merge_requests"
}

func (m MergeRequest) IsOpen() bool {
	return m.State == MergeRequestStateOpened
}
