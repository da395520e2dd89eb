package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const requestTimeout = 30 * time.Second

var ErrStatus = errors.New("unexpected dataset response status")

// Client загружает документ с данными по HTTP.
type Client interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type client struct {
	datasetURL string
	resty      *resty.Client
}

func NewClient(datasetURL string) Client {
	return client{
		datasetURL: datasetURL,
		resty:      resty.New().SetTimeout(requestTimeout),
	}
}

func (c client) Fetch(ctx context.Context) ([]byte, error) {
	req := c.resty.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	req.Method = http.MethodGet
	req.URL = c.datasetURL
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return resp.Body(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}
}
