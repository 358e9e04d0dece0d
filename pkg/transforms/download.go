package transforms

import (
	"bytes"
	"fmt"
	"path"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/task"
)

var downloadFields = schema.Fields{
	"url":    {Type: schema.String(), Description: "Asset location."},
	"format": {Type: schema.String(), Default: "", Description: "Format hint for downstream parsers, e.g. \"xyz\" or \"ccp4\"."},
	"label":  {Type: schema.String(), Default: "", Description: "Tree label; defaults to the url file name."},
}

type downloadParams struct {
	URL    string `mapstructure:"url"`
	Format string `mapstructure:"format"`
	Label  string `mapstructure:"label"`
}

// Download builds the root transformer that fetches a remote asset into a
// raw data cell through the injected fetcher. Its update path re-fetches
// and reports Unchanged when the asset bytes did not move, so stable
// sources do not cascade.
func Download(fetcher ports.Fetcher) *registry.Transformer {
	return &registry.Transformer{
		Name:        NameDownload,
		DisplayName: "Download",
		To:          domain.KindData,
		Params:      downloadFields,

		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			var p downloadParams
			if err := schema.Decode(params, &p); err != nil {
				return nil, err
			}
			body, err := fetch(rt, fetcher, p.URL)
			if err != nil {
				return nil, err
			}
			obj := domain.NewObject(domain.RawData{Bytes: body, Format: p.Format}, downloadLabel(p))
			obj.Description = fmt.Sprintf("%d bytes", len(body))
			return obj, nil
		},

		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			var p downloadParams
			if err := schema.Decode(params, &p); err != nil {
				return domain.UpdateUnchanged, err
			}
			raw, ok := current.Payload.(domain.RawData)
			if !ok {
				return domain.UpdateRecreate, nil
			}
			body, err := fetch(rt, fetcher, p.URL)
			if err != nil {
				return domain.UpdateUnchanged, err
			}
			label := downloadLabel(p)
			if bytes.Equal(body, raw.Bytes) && raw.Format == p.Format && current.Label == label {
				return domain.UpdateUnchanged, nil
			}
			current.Payload = domain.RawData{Bytes: body, Format: p.Format}
			current.Label = label
			current.Description = fmt.Sprintf("%d bytes", len(body))
			return domain.UpdateUpdated, nil
		},
	}
}

func fetch(rt *task.Runtime, fetcher ports.Fetcher, url string) ([]byte, error) {
	if err := rt.Checkpoint("downloading " + url); err != nil {
		return nil, err
	}
	body, err := fetcher.Fetch(rt.Context(), url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	return body, nil
}

func downloadLabel(p downloadParams) string {
	if p.Label != "" {
		return p.Label
	}
	return path.Base(p.URL)
}
