package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/shared/media"
)

// FormFile はマルチパートフォームの field を読み込みます。
// ファイルが無い場合やマルチパートでないリクエストでは (nil, nil) を返します。
func FormFile(c *gin.Context, field string) (*media.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return media.FromFormFile(fh)
}
