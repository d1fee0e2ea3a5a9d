package util

import "github.com/siatlabs/siat/model"

// Paginate slices an already ordered flow list into the requested page.
func Paginate(flows []model.Flow, page model.PageRequest) *model.FlowPage {
	page = page.Normalize()
	total := len(flows)
	pages := total / page.Limit
	if total%page.Limit != 0 {
		pages++
	}
	start := (page.Page - 1) * page.Limit
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return &model.FlowPage{
		Items: flows[start:end],
		Pagination: model.Pagination{
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: pages,
		},
	}
}
