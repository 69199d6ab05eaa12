package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kotoba/internal/entities"
)

func ankiRow(term, reading, pos, explanation string) string {
	cols := make([]string, 15)
	cols[1], cols[2], cols[3], cols[5] = term, reading, pos, explanation
	return strings.Join(cols, "\t") + "\n"
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/anki", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAnkiImportController_Import(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	export := "#separator:tab\n#html:false\n" +
		ankiRow("学校", "がっこう", "名", "學校") +
		ankiRow("書く", "かく", "他動1", "寫")

	w := env.send(uploadRequest(t, "JLPT N5.txt", export))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ankiImportResponse](t, w)
	assert.Equal(t, "JLPT N5", resp.Category)
	assert.Equal(t, 2, resp.Imported)
	assert.Equal(t, 3, resp.PosLinks)

	var count int64
	require.NoError(t, env.db.DB.Model(&entities.VocabItem{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAnkiImportController_RequiresFile(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	w := env.do(t, http.MethodPost, "/api/import/anki", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnkiImportController_RejectsLargeUpload(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	controller := NewAnkiImportController(nil, 64, nil)
	env.router.POST("/small-upload", controller.Import)

	req := uploadRequest(t, "big.txt", strings.Repeat("x", 1024))
	req.URL.Path = "/small-upload"
	w := env.send(req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
