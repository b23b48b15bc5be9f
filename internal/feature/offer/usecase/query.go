package usecase

import "math"

// 一覧取得のページング定数。skip は (page-1)*pageStride、limit は PageSize で、両者は一致しません。
const (
	PageSize   = 10
	pageStride = 5

	// maxPage は skip が int に収まる最大のページ番号です。
	maxPage = math.MaxInt / pageStride
)

// SortOrder は一覧の並び順です。
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
)

// ParseSort はクエリ文字列を SortOrder に変換します。未知の値は SortNone になります。
func ParseSort(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortNone
	}
}

// Filter は一覧の絞り込み条件です。Name と City は大文字小文字を区別しない部分一致、
// PriceMin と PriceMax は両端を含む範囲です。
type Filter struct {
	Name     string
	City     string
	PriceMin *float64
	PriceMax *float64
}

// Query はリポジトリに渡す検索条件です。
type Query struct {
	Filter Filter
	Sort   SortOrder
	Skip   int
	Limit  int
}

// Pagination は1始まりのページ番号から skip と limit を計算します。
// 1未満のページは1、maxPage を超えるページは maxPage として扱います。
func Pagination(page int) (skip, limit int) {
	switch {
	case page < 1:
		page = 1
	case page > maxPage:
		page = maxPage
	}
	return (page - 1) * pageStride, PageSize
}
