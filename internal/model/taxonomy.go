package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrDuplicateSlug is returned when a taxonomy lists a slug more than once.
	ErrDuplicateSlug = errors.New("slug placed more than once")

	// ErrDuplicateKey is returned when a hub, or a subhub within one hub,
	// is declared more than once.
	ErrDuplicateKey = errors.New("key declared more than once")
)

// Key identifies one subhub.
type Key struct {
	Hub    string `json:"hub"`
	Subhub string `json:"subhub"`
}

// String renders the key as "Hub → Subhub".
func (k Key) String() string {
	return k.Hub + " → " + k.Subhub
}

// IsZero reports whether both names are empty.
func (k Key) IsZero() bool {
	return k.Hub == "" && k.Subhub == ""
}

type subhubEntry struct {
	name  string
	slugs []string
}

type hubEntry struct {
	name    string
	subhubs []*subhubEntry
	index   map[string]int
}

// Taxonomy is the two-level placement map: hub → subhub → ordered slugs.
// Hubs and subhubs keep their declared order, and a slug is placed in at
// most one subhub. The zero value is not usable; call NewTaxonomy.
//
// Taxonomy is not safe for concurrent mutation.
type Taxonomy struct {
	hubs     []*hubEntry
	hubIndex map[string]int
	location map[string]Key
}

// NewTaxonomy returns an empty taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{
		hubIndex: make(map[string]int),
		location: make(map[string]Key),
	}
}

func (t *Taxonomy) hub(name string) *hubEntry {
	if i, ok := t.hubIndex[name]; ok {
		return t.hubs[i]
	}
	return nil
}

func (t *Taxonomy) subhub(key Key) *subhubEntry {
	h := t.hub(key.Hub)
	if h == nil {
		return nil
	}
	if i, ok := h.index[key.Subhub]; ok {
		return h.subhubs[i]
	}
	return nil
}

// AddHub declares a hub if it does not exist yet.
func (t *Taxonomy) AddHub(name string) {
	if t.hub(name) != nil {
		return
	}
	t.hubIndex[name] = len(t.hubs)
	t.hubs = append(t.hubs, &hubEntry{name: name, index: make(map[string]int)})
}

// AddSubhub declares a subhub (and its hub) if it does not exist yet.
func (t *Taxonomy) AddSubhub(key Key) {
	t.AddHub(key.Hub)
	h := t.hub(key.Hub)
	if _, ok := h.index[key.Subhub]; ok {
		return
	}
	h.index[key.Subhub] = len(h.subhubs)
	h.subhubs = append(h.subhubs, &subhubEntry{name: key.Subhub})
}

// Hubs returns hub names in declared order.
func (t *Taxonomy) Hubs() []string {
	out := make([]string, 0, len(t.hubs))
	for _, h := range t.hubs {
		out = append(out, h.name)
	}
	return out
}

// Subhubs returns the subhub names of a hub in declared order.
func (t *Taxonomy) Subhubs(hub string) []string {
	h := t.hub(hub)
	if h == nil {
		return nil
	}
	out := make([]string, 0, len(h.subhubs))
	for _, s := range h.subhubs {
		out = append(out, s.name)
	}
	return out
}

// Keys returns every subhub key in declared order.
func (t *Taxonomy) Keys() []Key {
	var out []Key
	for _, h := range t.hubs {
		for _, s := range h.subhubs {
			out = append(out, Key{Hub: h.name, Subhub: s.name})
		}
	}
	return out
}

// Has reports whether the subhub exists.
func (t *Taxonomy) Has(key Key) bool {
	return t.subhub(key) != nil
}

// HasHub reports whether the hub exists.
func (t *Taxonomy) HasHub(name string) bool {
	return t.hub(name) != nil
}

// Slugs returns a copy of the subhub's slugs in placement order.
func (t *Taxonomy) Slugs(key Key) []string {
	s := t.subhub(key)
	if s == nil {
		return nil
	}
	return append([]string(nil), s.slugs...)
}

// Add appends slug to the subhub. It reports false when the subhub does
// not exist or the slug is already placed anywhere in the taxonomy.
func (t *Taxonomy) Add(key Key, slug string) bool {
	s := t.subhub(key)
	if s == nil {
		return false
	}
	if _, placed := t.location[slug]; placed {
		return false
	}
	s.slugs = append(s.slugs, slug)
	t.location[slug] = key
	return true
}

// Remove takes slug out of its subhub and returns the key it was in.
func (t *Taxonomy) Remove(slug string) (Key, bool) {
	key, ok := t.Locate(slug)
	if !ok {
		return Key{}, false
	}
	s := t.subhub(key)
	for i, v := range s.slugs {
		if v == slug {
			s.slugs = append(s.slugs[:i], s.slugs[i+1:]...)
			break
		}
	}
	delete(t.location, slug)
	return key, true
}

// Locate returns the subhub that holds slug.
func (t *Taxonomy) Locate(slug string) (Key, bool) {
	key, ok := t.location[slug]
	return key, ok
}

// Contains reports whether slug is placed anywhere.
func (t *Taxonomy) Contains(slug string) bool {
	_, ok := t.Locate(slug)
	return ok
}

// AllSlugs returns every placed slug in declared order.
func (t *Taxonomy) AllSlugs() []string {
	out := make([]string, 0, len(t.location))
	for _, h := range t.hubs {
		for _, s := range h.subhubs {
			out = append(out, s.slugs...)
		}
	}
	return out
}

// Len returns the number of placed slugs.
func (t *Taxonomy) Len() int {
	return len(t.location)
}

// Clone returns a deep copy.
func (t *Taxonomy) Clone() *Taxonomy {
	out := NewTaxonomy()
	for _, h := range t.hubs {
		out.AddHub(h.name)
		for _, s := range h.subhubs {
			key := Key{Hub: h.name, Subhub: s.name}
			out.AddSubhub(key)
			for _, slug := range s.slugs {
				out.Add(key, slug)
			}
		}
	}
	return out
}

// MarshalJSON writes the taxonomy as nested objects in declared order.
// HTML characters are not escaped.
func (t *Taxonomy) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range t.hubs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, h.name); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		for j, s := range h.subhubs {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, s.name); err != nil {
				return nil, err
			}
			buf.WriteString(":[")
			for k, slug := range s.slugs {
				if k > 0 {
					buf.WriteByte(',')
				}
				if err := writeString(&buf, slug); err != nil {
					return nil, err
				}
			}
			buf.WriteByte(']')
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON reads nested objects, keeping their key order.
// A slug listed twice is rejected with ErrDuplicateSlug, and a repeated hub
// or subhub name with ErrDuplicateKey.
func (t *Taxonomy) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	out := NewTaxonomy()

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		hub, err := readKey(dec)
		if err != nil {
			return err
		}
		if out.HasHub(hub) {
			return fmt.Errorf("%w: hub %q", ErrDuplicateKey, hub)
		}
		out.AddHub(hub)
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("hub %q: %w", hub, err)
		}
		for dec.More() {
			subhub, err := readKey(dec)
			if err != nil {
				return err
			}
			key := Key{Hub: hub, Subhub: subhub}
			if out.Has(key) {
				return fmt.Errorf("%w: subhub %s", ErrDuplicateKey, key)
			}
			var slugs []string
			if err := dec.Decode(&slugs); err != nil {
				return fmt.Errorf("subhub %s: %w", key, err)
			}
			out.AddSubhub(key)
			for _, slug := range slugs {
				if prev, ok := out.location[slug]; ok {
					return fmt.Errorf("%w: %q in %s and %s", ErrDuplicateSlug, slug, prev, key)
				}
				out.Add(key, slug)
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return fmt.Errorf("hub %q: %w", hub, err)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*t = *out
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
