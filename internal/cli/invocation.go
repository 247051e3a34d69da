package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/osvector/internal/config"
	"github.com/kailas-cloud/osvector/internal/domain"
	"github.com/kailas-cloud/osvector/internal/usecase/invoke"
)

// adHocVectorizer names the embedding handle defined by --embedding-model.
const adHocVectorizer = "cli"

// invocationFlags hold one invocation's inputs. Flags override values read
// from --file.
type invocationFlags struct {
	file      string
	url       string
	index     string
	user      string
	pass      string
	code      string
	query     string
	k         int
	texts     []string
	records   []string
	embedding string

	model      string
	apiKey     string
	baseURL    string
	dimensions int
}

func (f *invocationFlags) register(cmd *cobra.Command, withSearch bool) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "invocation file, YAML or JSON (- for stdin)")
	fl.StringVar(&f.url, "opensearch-url", "", "OpenSearch connection string")
	fl.StringVar(&f.index, "index-name", "", "index name")
	fl.StringVar(&f.user, "opensearch-user", "", "OpenSearch username")
	fl.StringVar(&f.pass, "opensearch-pass", "", "OpenSearch password")
	fl.StringVar(&f.code, "code", "", "opaque code input")
	fl.StringArrayVar(&f.texts, "text", nil, "text record to ingest (repeatable)")
	fl.StringArrayVar(&f.records, "record", nil, "JSON record or document to ingest (repeatable)")
	fl.StringVarP(&f.embedding, "embedding", "e", "", "embedding handle (default from config)")
	fl.StringVar(&f.model, "embedding-model", "", "ad-hoc embedding model, overrides the configured default")
	fl.StringVar(&f.apiKey, "embedding-api-key", os.Getenv("OPENAI_API_KEY"), "API key for --embedding-model")
	fl.StringVar(&f.baseURL, "embedding-base-url", "", "OpenAI-compatible base URL for --embedding-model")
	fl.IntVar(&f.dimensions, "embedding-dimensions", 0, "output dimensions for --embedding-model")

	if withSearch {
		fl.StringVarP(&f.query, "query", "q", "", "search query")
		fl.IntVarP(&f.k, "number-of-results", "k", 0, "number of results to return (default 4)")
	}
}

// request assembles the invocation from --file and the flags.
func (f *invocationFlags) request(cmd *cobra.Command) (*invoke.Request, error) {
	req := &invoke.Request{}
	if f.file != "" {
		var err error
		req, err = readInvocation(cmd.InOrStdin(), f.file)
		if err != nil {
			return nil, err
		}
	}

	fl := cmd.Flags()
	setString := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	setString("opensearch-url", &req.OpenSearchURL, f.url)
	setString("index-name", &req.IndexName, f.index)
	setString("opensearch-user", &req.Username, f.user)
	setString("opensearch-pass", &req.Password, f.pass)
	setString("code", &req.Code, f.code)
	setString("query", &req.SearchQuery, f.query)
	setString("embedding", &req.Embedding, f.embedding)
	if fl.Changed("number-of-results") {
		req.NumberOfResults = f.k
	}

	for _, t := range f.texts {
		req.IngestData = append(req.IngestData,
			domain.RecordItem(domain.NewData(map[string]any{domain.DefaultTextKey: t})))
	}
	for i, r := range f.records {
		var item domain.IngestItem
		if err := json.Unmarshal([]byte(r), &item); err != nil {
			return nil, fmt.Errorf("--record[%d]: %w", i, err)
		}
		req.IngestData = append(req.IngestData, item)
	}

	if f.model != "" && !fl.Changed("embedding") {
		req.Embedding = adHocVectorizer
	}
	return req, nil
}

// applyEmbedder registers the --embedding-model vectorizer in cfg.
func (f *invocationFlags) applyEmbedder(cfg *config.Config) error {
	if f.model == "" {
		return nil
	}
	if cfg.Embedding.Providers == nil {
		cfg.Embedding.Providers = make(map[string]config.ProviderConfig)
	}
	if cfg.Embedding.Vectorizers == nil {
		cfg.Embedding.Vectorizers = make(map[string]config.VectorizerConfig)
	}
	cfg.Embedding.Providers[adHocVectorizer] = config.ProviderConfig{APIKey: f.apiKey, BaseURL: f.baseURL}
	cfg.Embedding.Vectorizers[adHocVectorizer] = config.VectorizerConfig{
		Provider:   adHocVectorizer,
		Model:      f.model,
		Dimensions: f.dimensions,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("embedding flags: %w", err)
	}
	return nil
}

// readInvocation decodes a YAML or JSON invocation file. YAML is converted to
// JSON first so ingest items decode the same way in both formats.
func readInvocation(stdin io.Reader, path string) (*invoke.Request, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read invocation %s: %w", path, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse invocation %s: %w", path, err)
	}
	if raw == nil {
		return &invoke.Request{}, nil
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("convert invocation %s: %w", path, err)
	}

	var req invoke.Request
	if err := json.Unmarshal(js, &req); err != nil {
		return nil, fmt.Errorf("decode invocation %s: %w", path, err)
	}
	return &req, nil
}
