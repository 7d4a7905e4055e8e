package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"contract-registry-api/config"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func addFilePart(t *testing.T, w *multipart.Writer, field, filename, contentType string, content []byte) {
	t.Helper()
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
}

func uploadRequest(t *testing.T, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/contracts/3/upload", body)
	req.Header.Set("Content-Type", contentType)
	return mux.SetURLVars(req, map[string]string{"id": "3"})
}

// Validation runs before the service is touched, so a nil service is safe in
// the rejection paths.
func TestUploadFiles_Rejections(t *testing.T) {
	config.AppConfig.Server.UploadDir = t.TempDir()
	h := ErrorHandlingMiddleware(NewUploadHandler(nil).UploadFiles)

	t.Run("non-PDF contract file", func(t *testing.T) {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		addFilePart(t, w, "contract_file", "contract.txt", "text/plain", []byte("not a pdf"))
		addFilePart(t, w, "attachment_file", "attachment.pdf", "application/pdf", []byte("%PDF-1.4"))
		assert.NoError(t, w.Close())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, uploadRequest(t, body, w.FormDataContentType()))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "only PDF files are accepted")
	})

	t.Run("missing attachment file", func(t *testing.T) {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		addFilePart(t, w, "contract_file", "contract.pdf", "application/pdf", []byte("%PDF-1.4"))
		assert.NoError(t, w.Close())

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, uploadRequest(t, body, w.FormDataContentType()))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "required")
	})

	t.Run("not multipart at all", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, uploadRequest(t, bytes.NewBufferString("{}"), "application/json"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
