package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex sync.Mutex
	files map[string]string
}

func (m *memoryOutput) Write(id, contents string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.files[id] = contents
}

func TestInstrumentClientDumpsExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-upstream", "pcso")
		_, _ = w.Write([]byte("<html>results</html>"))
	}))
	defer srv.Close()

	output := &memoryOutput{files: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, nil, output)

	_, err := client.R().
		SetFormData(map[string]string{"btnSearch": "Search Lotto"}).
		Post(srv.URL)
	require.NoError(t, err)

	dump, ok := output.files["1"]
	require.True(t, ok)
	require.True(t, strings.HasPrefix(dump, "---- REQUEST ----\n\nPOST "+srv.URL))
	require.Contains(t, dump, "btnSearch=Search+Lotto")
	require.Contains(t, dump, "X-Upstream: pcso")
	require.True(t, strings.HasSuffix(dump, "<html>results</html>"))
}

func TestFilesystemOutput(t *testing.T) {
	dir := t.TempDir() + "/dumps"
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	output.Write("1", "hello")

	contents, err := readFile(dir + "/1")
	require.NoError(t, err)
	require.Equal(t, "hello", contents)
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}
