package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segurnet/claims-relay/claimdocs"
	"github.com/segurnet/claims-relay/storage"
)

/* Permanent-link proxy
 *
 * The CRM stores one stable URL per claim document. The object store
 * only issues expiring URLs, so each fetch of a permanent link
 * re-resolves to a fresh signed URL and redirects. One extra hop buys
 * permanence.
 */

const (
	// fileSignTTL is the lifetime of the signed URL behind a redirect
	fileSignTTL = time.Hour
	// infoSignTTL is the short-lived signing used purely as an existence check
	infoSignTTL = 60 * time.Second
)

// fileDescriptor is one entry in the claim file listing
type fileDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	FileType    string `json:"fileType"`
	FileName    string `json:"fileName"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type claimFilesResponse struct {
	ClaimID     string           `json:"claimId"`
	TotalFiles  int              `json:"totalFiles"`
	Files       []fileDescriptor `json:"files"`
	LastUpdated time.Time        `json:"lastUpdated"`
	BaseURL     string           `json:"baseUrl"`
	Note        string           `json:"note"`
}

type fileNotFoundResponse struct {
	Error    string `json:"error"`
	ClaimID  string `json:"claimId"`
	FileType string `json:"fileType"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

// getFile handles GET /api/ghl/file/{claimID}/{fileType}/{fileName}
func getFile(signer storage.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claimID := chi.URLParam(r, "claimID")
		fileType := chi.URLParam(r, "fileType")
		fileName := chi.URLParam(r, "fileName")

		path, err := storage.ObjectPath(claimID, fileType, fileName)
		if err != nil {
			// the rejected composition still names what was asked for
			writeFileNotFound(w, claimID, fileType, fileName,
				claimID+"/"+fileType+"/"+fileName)
			return
		}

		signed, err := signer.SignedURL(r.Context(), path, fileSignTTL)
		if err != nil {
			// "not yet uploaded" is an expected condition: always 404, never 5xx
			writeFileNotFound(w, claimID, fileType, fileName, path)
			return
		}

		http.Redirect(w, r, signed, http.StatusFound)
	}
}

// getClaimFiles handles GET /api/ghl/claim/{claimID}/files
// Always 200 with the canonical slots; existence is checked at fetch time
func getClaimFiles(baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claimID := chi.URLParam(r, "claimID")

		slots := claimdocs.Slots()
		files := make([]fileDescriptor, 0, len(slots))
		for _, slot := range slots {
			files = append(files, fileDescriptor{
				ID:          slot.ID,
				Name:        slot.Name,
				Type:        slot.Type,
				FileType:    slot.FileType,
				FileName:    slot.FileName,
				URL:         fmt.Sprintf("%s/api/ghl/file/%s/%s/%s", baseURL, claimID, slot.FileType, slot.FileName),
				Description: slot.Description,
			})
		}

		writeJSON(w, http.StatusOK, claimFilesResponse{
			ClaimID:     claimID,
			TotalFiles:  len(files),
			Files:       files,
			LastUpdated: time.Now().UTC(),
			BaseURL:     baseURL,
			Note:        "URLs resolve to fresh signed links at fetch time; listed slots may not have an uploaded file yet",
		})
	}
}

// getFileInfo handles GET /api/ghl/info/{claimID}/{fileType}/{fileName}
// Diagnostic existence probe: signs with a short TTL, no redirect
func getFileInfo(signer storage.Signer, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claimID := chi.URLParam(r, "claimID")
		fileType := chi.URLParam(r, "fileType")
		fileName := chi.URLParam(r, "fileName")

		path, err := storage.ObjectPath(claimID, fileType, fileName)
		if err == nil {
			_, err = signer.SignedURL(r.Context(), path, infoSignTTL)
		}
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"exists":   false,
				"claimId":  claimID,
				"fileType": fileType,
				"fileName": fileName,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"exists":       true,
			"permanentUrl": fmt.Sprintf("%s/api/ghl/file/%s/%s/%s", baseURL, claimID, fileType, fileName),
			"infoUrl":      fmt.Sprintf("%s/api/ghl/info/%s/%s/%s", baseURL, claimID, fileType, fileName),
		})
	}
}

// getHealth handles GET /api/ghl/health: liveness only, no dependency checks
func getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "claims-relay",
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"version":   "1.0.0",
			"endpoints": map[string]string{
				"file":  "/api/ghl/file/{claimId}/{fileType}/{fileName}",
				"files": "/api/ghl/claim/{claimId}/files",
				"info":  "/api/ghl/info/{claimId}/{fileType}/{fileName}",
			},
		})
	}
}

func writeFileNotFound(w http.ResponseWriter, claimID, fileType, fileName, path string) {
	writeJSON(w, http.StatusNotFound, fileNotFoundResponse{
		Error:    "file not found",
		ClaimID:  claimID,
		FileType: fileType,
		FileName: fileName,
		FilePath: path,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
