package util

import "github.com/dsnakex/Biotech-Dashboard/internal/constant"

func CalculateTotalPage(totalItems int64, pageSize uint) int {
	if pageSize <= 0 {
		pageSize = constant.DefaultPageSize
	}
	if totalItems == 0 {
		return 1
	}
	totalPage := int(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) != 0 {
		totalPage++
	}
	return totalPage
}

// NormalizePage clamps page and pageSize into usable values.
func NormalizePage(page, pageSize uint) (uint, uint) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = constant.DefaultPageSize
	}
	if pageSize > constant.MaxPageSize {
		pageSize = constant.MaxPageSize
	}
	return page, pageSize
}
