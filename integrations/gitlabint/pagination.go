package gitlabint

import (
	"github.com/l3montree-dev/policyguard/utils"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// FetchPaginatedData fetches every page. Pages are fetched concurrently if the total page count is known,
// so the order of the result is not stable. A failing page fails the whole fetch.
func FetchPaginatedData[T any](
	fetchPage func(page int) ([]T, *gitlab.Response, error),
) ([]T, error) {
	allData, response, err := fetchPage(1)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return allData, nil
	}

	// the total page count is not set for large collections, follow the next page header instead
	if response.TotalPages == 0 {
		for response.NextPage != 0 {
			pageData, r, err := fetchPage(int(response.NextPage))
			if err != nil {
				return nil, err
			}
			allData = append(allData, pageData...)
			if r == nil {
				break
			}
			response = r
		}
		return allData, nil
	}

	group := utils.ErrGroup[[]T](5)
	for page := 2; page <= int(response.TotalPages); page++ {
		group.Go(func() ([]T, error) {
			pageData, _, err := fetchPage(page)
			return pageData, err
		})
	}
	pages, err := group.WaitAndCollect()
	if err != nil {
		return nil, err
	}
	return append(allData, utils.Flat(pages)...), nil
}
