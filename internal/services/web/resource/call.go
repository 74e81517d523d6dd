package resource

import (
	"context"
	"net/http"
	"net/url"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
)

// Get reads path into a T.
func Get[T any](ctx context.Context, api apiclient.Caller, path string, params url.Values) (T, error) {
	var out T
	err := api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path, Query: params}, &out)
	return out, err
}

// Send writes body with method and decodes the response into a T.
func Send[T any](ctx context.Context, api apiclient.Caller, method, path string, body any) (T, error) {
	var out T
	err := api.Do(ctx, apiclient.Request{Method: method, Path: path, Body: body}, &out)
	return out, err
}

// Delete removes the resource at path.
func Delete(ctx context.Context, api apiclient.Caller, path string) error {
	return api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: path}, nil)
}
