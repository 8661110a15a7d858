package openai

import "github.com/pagesmith/pagesmith/internal/port/llmprovider"

func init() {
	llmprovider.Register(providerName, func(cfg map[string]string) (llmprovider.Provider, error) {
		return NewClient(cfg["base_url"], cfg["api_key"], cfg["model"]), nil
	})
}
