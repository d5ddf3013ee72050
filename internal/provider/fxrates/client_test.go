package fxrates_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"marketdesk/internal/market"
	"marketdesk/internal/provider/fxrates"
)

func jsonBody(s string) io.ReadCloser { return io.NopCloser(strings.NewReader(s)) }

func TestRate_MidRate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			require.Equal(t, "USD", q.Get("base"))
			require.Equal(t, "KZT", q.Get("quote"))
			require.Equal(t, "test", q.Get("api_key"))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body: jsonBody(`{"quotes":[
					{"base_currency":"USD","quote_currency":"KZT","bid":449.8,"ask":450.4,"mid":450.1}
				]}`),
			}, nil
		}).
		Times(1)

	client := fxrates.NewClient("test", fxrates.WithHTTPClient(httpClient))

	rate, err := client.Rate(context.Background(), "usd", "kzt")
	require.NoError(t, err)
	require.Equal(t, market.ConversionRate{Base: "USD", Target: "KZT", Rate: 450.1}, rate)
	require.Equal(t, 45010.0, rate.Convert(100))
}

func TestRate_TargetMismatch_IsRateNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	// The provider answered for a nearest-match pair instead of the one
	// requested. That must never become a silently-wrong rate.
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       jsonBody(`{"quotes":[{"base_currency":"USD","quote_currency":"KGS","mid":89.4}]}`),
		}, nil).
		Times(1)

	client := fxrates.NewClient("test", fxrates.WithHTTPClient(httpClient))

	_, err := client.Rate(context.Background(), "USD", "KZT")
	require.ErrorIs(t, err, market.ErrRateNotFound)
}

func TestRate_EmptyQuotes_IsRateNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{StatusCode: http.StatusOK, Body: jsonBody(`{"quotes":[]}`)}, nil).
		Times(1)

	client := fxrates.NewClient("", fxrates.WithHTTPClient(httpClient))

	_, err := client.Rate(context.Background(), "USD", "XXX")
	require.ErrorIs(t, err, market.ErrRateNotFound)
}

func TestRate_MissingMid_IsRateNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       jsonBody(`{"quotes":[{"base_currency":"USD","quote_currency":"KZT","bid":449.8}]}`),
		}, nil).
		Times(1)

	client := fxrates.NewClient("", fxrates.WithHTTPClient(httpClient))

	_, err := client.Rate(context.Background(), "USD", "KZT")
	require.ErrorIs(t, err, market.ErrRateNotFound)
}

func TestRate_BadRequest_IsInvalidRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{StatusCode: http.StatusBadRequest, Body: jsonBody(``)}, nil).
		Times(1)

	client := fxrates.NewClient("", fxrates.WithHTTPClient(httpClient))

	_, err := client.Rate(context.Background(), "US", "")
	require.True(t, market.IsInvalidRequest(err), "got: %v", err)
}

func TestRate_TransportError_IsUnavailable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(nil, errors.New("connection reset by peer")).
		Times(1)

	client := fxrates.NewClient("", fxrates.WithHTTPClient(httpClient))

	_, err := client.Rate(context.Background(), "USD", "KZT")
	require.True(t, market.IsUnavailable(err), "got: %v", err)
	require.False(t, market.IsNotFound(err))
}

func TestRate_ServerError_IsUnavailable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{StatusCode: http.StatusServiceUnavailable, Body: jsonBody(``)}, nil).
		Times(1)

	client := fxrates.NewClient("", fxrates.WithHTTPClient(httpClient))

	_, err := client.Rate(context.Background(), "USD", "KZT")
	require.True(t, market.IsUnavailable(err), "got: %v", err)
}
