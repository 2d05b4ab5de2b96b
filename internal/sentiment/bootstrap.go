package sentiment

import (
	"context"
	"log/slog"

	"github.com/spacesedan/sentilyze/internal/resources"
)

type ResourceLoader interface {
	Load(ctx context.Context, res resources.Resource) ([]byte, bool, error)
}

// Bootstrap records how the tokenizer came to be, so the UI can tell the user about
// a first-run download.
type Bootstrap struct {
	Downloaded bool
	Bundled    bool
}

// LoadTokenizer ensures the Punkt training data is present and builds a tokenizer from
// it. When the download fails for English the training data bundled with the sentences
// module is used instead.
func LoadTokenizer(ctx context.Context, loader ResourceLoader, res resources.Resource, language string) (Tokenizer, Bootstrap, error) {
	data, downloaded, err := loader.Load(ctx, res)
	if err == nil {
		tokenizer, err := NewPunktTokenizer(language, data)
		if err == nil {
			slog.Info("[Sentiment] Punkt tokenizer ready",
				slog.String("language", language),
				slog.Bool("downloaded", downloaded))
			return tokenizer, Bootstrap{Downloaded: downloaded}, nil
		}
		if language != LANGUAGE_ENGLISH {
			return nil, Bootstrap{}, err
		}
		slog.Warn("[Sentiment] Local punkt data unusable, using bundled english data",
			slog.String("error", err.Error()))
	} else {
		if language != LANGUAGE_ENGLISH {
			return nil, Bootstrap{}, err
		}
		slog.Warn("[Sentiment] Punkt download failed, using bundled english data",
			slog.String("error", err.Error()))
	}

	tokenizer, err := NewBundledEnglishTokenizer()
	if err != nil {
		return nil, Bootstrap{}, err
	}
	return tokenizer, Bootstrap{Bundled: true}, nil
}
