package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"

	"property-portal/internal/ingest"
)

// parseBody flattens any accepted body encoding into an ingest.Form
// plus the uploaded files keyed by field name. JSON bodies carry no
// files.
func parseBody(c *gin.Context) (ingest.Form, map[string][]*multipart.FileHeader, error) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, nil, err
		}
		return ingest.Form(form.Value), form.File, nil
	}

	if contentType == "application/json" {
		var body map[string]any
		if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
			return nil, nil, err
		}
		return ingest.FromJSON(body), nil, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, nil, err
	}
	return ingest.Form(c.Request.PostForm), nil, nil
}
