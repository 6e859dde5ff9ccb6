package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	vision "cloud.google.com/go/vision/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"humsafar/internal/biodata"
	"humsafar/internal/middleware"
)

// OCRBiodata accepts a biodata photo or screenshot, extracts the text
// with Google Vision and runs the heuristic parser over it.
// POST /api/v1/biodata/ocr (protected)
// multipart/form-data with file field "biodata"
func OCRBiodata(w http.ResponseWriter, r *http.Request) {
	// Limit body to 10MB
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "failed to parse form or file too large"})
		return
	}

	file := lookupFile(r, "biodata")
	if file == nil {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "missing file field 'biodata' (send multipart/form-data with field name 'biodata')"})
		return
	}
	defer file.Close()

	imgBytes, err := io.ReadAll(file)
	if err != nil || len(imgBytes) == 0 {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "failed to read uploaded file"})
		return
	}

	ctx := context.Background()
	credPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	var client *vision.ImageAnnotatorClient
	if credPath != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credPath))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		middleware.Logger.Sugar().Errorw("failed to init OCR client", "error", err)
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"status": "Server_Error", "message": "failed to init OCR client"})
		return
	}
	defer client.Close()

	img := &visionpb.Image{Content: imgBytes}
	anns, err := client.DetectTexts(ctx, img, nil, 1)
	if err != nil || len(anns) == 0 || anns[0].Description == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "could not extract text from image"})
		return
	}
	raw := anns[0].Description

	writeJSONResp(w, http.StatusOK, map[string]any{
		"raw_text": raw,
		"profile":  biodata.Parse(raw),
	})
}

// lookupFile is tolerant about the multipart field name: frontends keep
// renaming it.
func lookupFile(r *http.Request, preferred string) multipart.File {
	if f, _, err := r.FormFile(preferred); err == nil {
		return f
	}
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil
	}
	alts := []string{"file", "upload", "image", "photo", "document", "biodata[]", "files[]"}
	for _, a := range alts {
		if f, _, err := r.FormFile(a); err == nil {
			return f
		}
	}
	for k := range r.MultipartForm.File {
		if f, _, err := r.FormFile(k); err == nil {
			return f
		}
	}
	return nil
}
