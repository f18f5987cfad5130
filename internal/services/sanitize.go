package service

import (
	"github.com/aaravmahajanofficial/storefront-api/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// descriptionPolicy is shared by every service that returns catalog text. A built policy is safe for concurrent use.
var descriptionPolicy = bluemonday.UGCPolicy()

func sanitizeProduct(p *models.Product) {
	if p != nil {
		p.Description = descriptionPolicy.Sanitize(p.Description)
	}
}
