package model

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrUnknownModel is returned when a name has no registered constructor.
	ErrUnknownModel = errors.New("unknown model")
	// ErrMalformedRecord covers undecodable payloads, undeclared fields and bad timestamps.
	ErrMalformedRecord = errors.New("malformed record")
)

// timestampLayouts are the ISO-8601 shapes accepted when decoding.
// Values without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Factory returns a fresh, zero-valued entity of one model.
type Factory func() Entity

// Registry maps model names to constructors. It is built once at startup
// and replaces any lookup of types by name at runtime.
type Registry struct {
	factories map[Name]Factory
	order     []Name
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Name]Factory)}
}

// DefaultRegistry registers every model of the application.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NameCountry, func() Entity { return &Country{} })
	r.Register(NameUser, func() Entity { return &User{} })
	r.Register(NameAmenity, func() Entity { return &Amenity{} })
	r.Register(NameCity, func() Entity { return &City{} })
	r.Register(NameReview, func() Entity { return &Review{} })
	r.Register(NamePlace, func() Entity { return &Place{} })
	r.Register(NamePlaceAmenity, func() Entity { return &PlaceAmenity{} })
	return r
}

// Register adds or replaces the constructor for name.
func (r *Registry) Register(name Name, f Factory) {
	if _, ok := r.factories[name]; !ok {
		r.order = append(r.order, name)
	}
	r.factories[name] = f
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []Name {
	out := make([]Name, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Has(name Name) bool {
	_, ok := r.factories[name]
	return ok
}

// New returns a zero-valued entity for name.
func (r *Registry) New(name Name) (Entity, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return f(), nil
}

// Decode rebuilds an entity from its dict form encoded as JSON.
// Fields not declared on the entity are rejected. A missing id is generated.
func (r *Registry) Decode(name Name, raw []byte) (Entity, error) {
	return r.decode(name, raw, false)
}

// DecodeStored is Decode for persisted records: the id must be present,
// otherwise every load would hand the record a new identity.
func (r *Registry) DecodeStored(name Name, raw []byte) (Entity, error) {
	return r.decode(name, raw, true)
}

func (r *Registry) decode(name Name, raw []byte, requireID bool) (Entity, error) {
	e, err := r.New(name)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}

	var id string
	if v, ok := fields["id"]; ok {
		if err := json.Unmarshal(v, &id); err != nil {
			return nil, fmt.Errorf("%w: %s: id: %v", ErrMalformedRecord, name, err)
		}
	}
	if requireID && id == "" {
		return nil, fmt.Errorf("%w: %s: missing id", ErrMalformedRecord, name)
	}
	createdAt, err := timestampField(fields, "created_at")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}
	updatedAt, err := timestampField(fields, "updated_at")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}
	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")

	rest, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}
	dec := json.NewDecoder(bytes.NewReader(rest))
	dec.DisallowUnknownFields()
	if err := dec.Decode(e); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}

	*e.Meta() = NewBase(id, createdAt, updatedAt)
	return e, nil
}

// FromDict rebuilds an entity from the map produced by ToDict.
func (r *Registry) FromDict(name Name, d map[string]any) (Entity, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, name, err)
	}
	return r.Decode(name, raw)
}

// ToDict renders the canonical dict of an entity: its declared fields plus
// id, created_at and updated_at as ISO-8601 strings.
func ToDict(e Entity) (map[string]any, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var d map[string]any
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseTimestamp reads an ISO-8601 timestamp and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func timestampField(fields map[string]json.RawMessage, key string) (time.Time, error) {
	v, ok := fields[key]
	if !ok || string(v) == "null" {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return time.Time{}, fmt.Errorf("%s: %v", key, err)
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %v", key, err)
	}
	return t, nil
}
