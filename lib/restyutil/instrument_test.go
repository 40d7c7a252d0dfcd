package restyutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	output := &memoryOutput{}
	client := resty.New().SetBaseURL(srv.URL)
	InstrumentClient(client, provider.Tracer("test"), output)

	_, err := client.R().
		SetFormData(map[string]string{
			"username": "someone",
			"password": "hunter2",
		}).
		Post("/user/login.do")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "http POST", spans[0].Name())

	require.Len(t, output.messages, 1)
	dump := output.messages["1"]
	require.Contains(t, dump, "POST "+srv.URL+"/user/login.do")
	require.Contains(t, dump, "username=someone")
	require.NotContains(t, dump, "hunter2")
	require.True(t, strings.HasSuffix(dump, "hello"))
}

func TestInstrumentClientError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	client := resty.New().SetBaseURL("http://127.0.0.1:1")
	InstrumentClient(client, provider.Tracer("test"), nil)

	_, err := client.R().Get("/")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "http GET", spans[0].Name())
	require.NotEmpty(t, spans[0].Events())
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Add("X-B", "2")
	headers.Add("X-A", "1")
	headers.Add("X-A", "3")
	require.Equal(t, "X-A: 1\nX-A: 3\nX-B: 2", formatHeaders(headers))
}
