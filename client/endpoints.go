package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	goerrors "github.com/goliatone/go-errors"
)

// Login exchanges the form-encoded credentials for an access token. The
// caller is responsible for persisting it.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	out := loginResponse{}
	if err := c.postForm(ctx, "/auth/login", form, &out); err != nil {
		return "", err
	}

	return out.AccessToken, nil
}

// Signup creates an account. A nil error means the server accepted it.
func (c *Client) Signup(ctx context.Context, input SignupInput) error {
	return c.postJSON(ctx, "/auth/signup", nil, input, nil)
}

// Upload sends a financial document as a multipart form. Validation of
// type and size happens before this call; the server does its own parsing.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) error {
	var body bytes.Buffer

	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build multipart form")
	}

	if _, err := io.Copy(part, file); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read upload file")
	}

	if err := writer.Close(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to finalize multipart form")
	}

	return c.do(ctx, http.MethodPost, "/upload/", nil, writer.FormDataContentType(), &body, nil)
}

// Analysis fetches the computed metrics.
func (c *Client) Analysis(ctx context.Context) (*AnalysisResult, error) {
	out := &AnalysisResult{}
	if err := c.get(ctx, "/analysis", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FinancialHealth generates a narrative health summary in the given
// language.
func (c *Client) FinancialHealth(ctx context.Context, language string) (string, error) {
	query := url.Values{}
	if language != "" {
		query.Set("language", language)
	}

	out := insightsResponse{}
	if err := c.do(ctx, http.MethodPost, "/ai/financial-health", query, "", nil, &out); err != nil {
		return "", err
	}

	return out.Insights, nil
}

// Insights fetches the stored narrative insights in the given language.
func (c *Client) Insights(ctx context.Context, lang string) (string, error) {
	query := url.Values{}
	if lang != "" {
		query.Set("lang", lang)
	}

	out := insightsResponse{}
	if err := c.get(ctx, "/ai/insights", query, &out); err != nil {
		return "", err
	}

	return out.Insights, nil
}

// Reports lists the stored analysis runs.
func (c *Client) Reports(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := c.get(ctx, "/reports", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Forecast fetches the revenue projection.
func (c *Client) Forecast(ctx context.Context) (*ForecastResult, error) {
	out := &ForecastResult{}
	if err := c.get(ctx, "/forecast", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Compliance fetches the GST/tax compliance snapshot.
func (c *Client) Compliance(ctx context.Context) (*ComplianceResult, error) {
	out := &ComplianceResult{}
	if err := c.get(ctx, "/compliance", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
