package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"catalog_browser/pkg/logger"
	"catalog_browser/pkg/middleware"
)

const defaultTimeout = 10 * time.Second

type BaseClient struct {
	ApiURL string
	log    logger.Logger
	client *http.Client
}

// NewBaseClient использует httpClient как есть; nil заменяется клиентом с таймаутом по умолчанию.
func NewBaseClient(apiURL string, httpClient *http.Client, log logger.Logger) *BaseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &BaseClient{
		ApiURL: strings.TrimRight(apiURL, "/"),
		log:    log,
		client: httpClient,
	}
}

// doRequest returns the decoded (UTF-8) body of a 200 response. Any other status
// becomes a *StatusError.
func (c *BaseClient) doRequest(ctx context.Context, method, endpoint, path string, query url.Values, requestBody interface{}) ([]byte, error) {
	var body io.Reader
	if requestBody != nil {
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		body = bytes.NewReader(bodyBytes)
	}

	target := c.ApiURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(middleware.WithEndpoint(ctx, endpoint), method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "%s: request was cancelled", endpoint)
		default:
			return nil, errors.Wrapf(err, "%s: execute request", endpoint)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(c.decoder(resp))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read response body", endpoint)
	}
	return data, nil
}

// decoder перекодирует тело в UTF-8, если Content-Type объявляет другую кодировку
// (старые инстансы сервиса отдают euc-kr).
func (c *BaseClient) decoder(resp *http.Response) io.Reader {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return resp.Body
	}
	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return resp.Body
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		c.log.Warn("unknown charset %q, reading body as is", charset)
		return resp.Body
	}
	return transform.NewReader(resp.Body, enc.NewDecoder())
}
