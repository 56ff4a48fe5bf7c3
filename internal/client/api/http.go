package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/common"
)

// HTTPClient talks to the vault backend over plain JSON/HTTP. Every request
// carries the acting username in the X-User header; the backend creates the
// user on first contact.
type HTTPClient struct {
	baseURL  string
	username string
	client   *http.Client
}

func NewHTTPClient(baseURL, username string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	var body struct {
		Files []fileDTO `json:"files"`
	}
	if err := c.getJSON(ctx, "/files", nil, &body); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return toRecords(body.Files), nil
}

func (c *HTTPClient) ListAdminFiles(ctx context.Context) ([]models.FileRecord, error) {
	var body struct {
		Files []fileDTO `json:"files"`
	}
	if err := c.getJSON(ctx, "/admin/files", nil, &body); err != nil {
		return nil, fmt.Errorf("list admin files: %w", err)
	}
	return toRecords(body.Files), nil
}

func (c *HTTPClient) Search(ctx context.Context, q models.SearchQuery) ([]models.FileRecord, error) {
	params := url.Values{}
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if q.Mime != "" {
		params.Set("mime", q.Mime)
	}
	if q.MinSize > 0 {
		params.Set("minSize", strconv.FormatInt(q.MinSize, 10))
	}
	if q.MaxSize > 0 {
		params.Set("maxSize", strconv.FormatInt(q.MaxSize, 10))
	}
	if !q.StartDate.IsZero() {
		params.Set("startDate", q.StartDate.Format("2006-01-02"))
	}
	if !q.EndDate.IsZero() {
		params.Set("endDate", q.EndDate.Format("2006-01-02"))
	}
	if len(q.Tags) > 0 {
		params.Set("tags", strings.Join(q.Tags, ","))
	}
	if q.Uploader != "" {
		params.Set("uploader", q.Uploader)
	}

	var body struct {
		Files []fileDTO `json:"files"`
	}
	if err := c.getJSON(ctx, "/search", params, &body); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return toRecords(body.Files), nil
}

func (c *HTTPClient) GetFile(ctx context.Context, id string) (models.FileRecord, error) {
	var body struct {
		File fileDTO `json:"file"`
	}
	if err := c.getJSON(ctx, "/files/"+url.PathEscape(id), nil, &body); err != nil {
		return models.FileRecord{}, fmt.Errorf("get file %s: %w", id, err)
	}
	return body.File.toRecord(), nil
}

func (c *HTTPClient) ListFolders(ctx context.Context) ([]models.FolderRecord, error) {
	var body struct {
		Folders []folderDTO `json:"folders"`
	}
	if err := c.getJSON(ctx, "/folders", nil, &body); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	out := make([]models.FolderRecord, 0, len(body.Folders))
	for _, d := range body.Folders {
		out = append(out, d.toRecord())
	}
	return out, nil
}

func (c *HTTPClient) ListSharedWith(ctx context.Context, id string) ([]string, error) {
	var body struct {
		SharedWith []string `json:"shared_with"`
	}
	if err := c.getJSON(ctx, "/files/"+url.PathEscape(id)+"/shared_with", nil, &body); err != nil {
		return nil, fmt.Errorf("list shared_with for %s: %w", id, err)
	}
	if body.SharedWith == nil {
		body.SharedWith = []string{}
	}
	return body.SharedWith, nil
}

func (c *HTTPClient) SetFilePublic(ctx context.Context, id string, public bool) (string, error) {
	req := map[string]bool{"public": public}
	var body struct {
		PublicToken string `json:"public_token"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/files/"+url.PathEscape(id)+"/share", req, &body)
	if err != nil {
		return "", fmt.Errorf("share file %s: %w", id, err)
	}
	return body.PublicToken, nil
}

func (c *HTTPClient) ShareFileWithUser(ctx context.Context, id, targetUser string) error {
	req := map[string]string{"target_user": targetUser}
	err := c.doJSON(ctx, http.MethodPost, "/files/"+url.PathEscape(id)+"/share/user", req, nil)
	if err != nil {
		return fmt.Errorf("share file %s with %s: %w", id, targetUser, err)
	}
	return nil
}

func (c *HTTPClient) UnshareFileWithUser(ctx context.Context, id, targetUser string) error {
	req := map[string]string{"target_user": targetUser}
	err := c.doJSON(ctx, http.MethodDelete, "/files/"+url.PathEscape(id)+"/share/user", req, nil)
	if err != nil {
		return fmt.Errorf("unshare file %s with %s: %w", id, targetUser, err)
	}
	return nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/files/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	return nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, name string) (models.FolderRecord, error) {
	req := map[string]string{"name": name}
	var body struct {
		Folder folderDTO `json:"folder"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/folders", req, &body); err != nil {
		return models.FolderRecord{}, fmt.Errorf("create folder %q: %w", name, err)
	}
	return body.Folder.toRecord(), nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *HTTPClient) send(req *http.Request, out any) error {
	req.Header.Set(common.UserHeaderName, c.username)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", common.ErrTransientNetwork, err)
	}
	return nil
}

// statusError maps an HTTP failure onto the client error taxonomy: 404 means
// the record is gone, other 4xx mean the server rejected the request for a
// reason worth showing to the user, everything else is transient.
func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", common.ErrTransientNetwork, msg)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrConflictOnMutation, msg)
	default:
		return fmt.Errorf("%w: unexpected status %s", common.ErrTransientNetwork, resp.Status)
	}
}
