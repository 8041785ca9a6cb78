package targets

import (
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Target is one instrument's outbound webhook endpoint.
type Target struct {
	Symbol string `json:"symbol"`
	URL    string `json:"url"`
	Valid  bool   `json:"valid"`
}

// Registry is the immutable symbol -> webhook mapping. It is built once at
// startup and only ever read after that, so no locking is needed.
type Registry struct {
	targets     map[string]Target
	instruments []string
}

// Normalize canonicalizes an instrument symbol the way the upstream alert
// source is expected to send it: trimmed and upper-cased.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsValidURL reports whether a configured URL is deliverable. Unconfigured
// instruments carry placeholder URLs that must never be called.
func IsValidURL(url string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}
	return !strings.Contains(url, "PLACEHOLDER") && !strings.Contains(url, "XXXXXXXX")
}

// New builds a registry from a symbol -> URL map. Symbols are normalized;
// empty URLs become placeholders so every registered symbol has a target.
func New(urls map[string]string) *Registry {
	r := &Registry{targets: make(map[string]Target, len(urls))}

	for symbol, url := range urls {
		symbol = Normalize(symbol)
		url = strings.TrimSpace(url)
		if url == "" {
			url = "https://hook.finandy.com/PLACEHOLDER_" + symbol
		}
		r.targets[symbol] = Target{
			Symbol: symbol,
			URL:    url,
			Valid:  IsValidURL(url),
		}
	}

	r.instruments = make([]string, 0, len(r.targets))
	for symbol := range r.targets {
		r.instruments = append(r.instruments, symbol)
	}
	sort.Strings(r.instruments)

	return r
}

// Load reads the targets file (yaml map under the "targets" key).
func Load(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return New(v.GetStringMapString("targets")), nil
}

func (r *Registry) Resolve(symbol string) (Target, bool) {
	t, ok := r.targets[Normalize(symbol)]
	return t, ok
}

func (r *Registry) Contains(symbol string) bool {
	_, ok := r.targets[Normalize(symbol)]
	return ok
}

// Instruments returns the sorted symbol set. Callers must not mutate it.
func (r *Registry) Instruments() []string {
	return r.instruments
}

func (r *Registry) Len() int {
	return len(r.targets)
}

// ValidTargets returns symbol -> URL for deliverable targets.
func (r *Registry) ValidTargets() map[string]string {
	out := make(map[string]string)
	for symbol, t := range r.targets {
		if t.Valid {
			out[symbol] = t.URL
		}
	}
	return out
}

// PlaceholderTargets returns symbol -> URL for unconfigured targets.
func (r *Registry) PlaceholderTargets() map[string]string {
	out := make(map[string]string)
	for symbol, t := range r.targets {
		if !t.Valid {
			out[symbol] = t.URL
		}
	}
	return out
}
