package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as bearer auth.
func PostJSON(url string, payload any, token string) (*http.Response, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)
	return do(req)
}

// GetJSON sends a GET request with optional bearer auth.
func GetJSON(url string, token string) (*http.Response, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	setAuth(req, token)
	return do(req)
}

// FilePart — один файл для multipart-запроса.
type FilePart struct {
	Field string
	Path  string
}

// PostMultipart отправляет multipart/form-data: текстовые поля плюс файлы с диска.
func PostMultipart(url string, fields map[string]string, files []FilePart, token string) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, nil, err
		}
	}
	for _, fp := range files {
		f, err := os.Open(fp.Path)
		if err != nil {
			return nil, nil, err
		}
		part, err := mw.CreateFormFile(fp.Field, filepath.Base(fp.Path))
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return nil, nil, err
		}
		f.Close()
	}
	if err := mw.Close(); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	setAuth(req, token)
	return do(req)
}

// ServerMessage достаёт человекочитаемое message из тела ошибки.
func ServerMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return string(bytes.TrimSpace(body))
}

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, body, nil
}
