package odoo

import (
	"context"
	"log/slog"
	"sync"
)

// Session keeps credentials and the user id of one Odoo database.
// It authenticates lazily on the first call, after that only uid is
// retained. Session is safe for concurrent use.
type Session struct {
	client Client
	cr     Credentials

	mu  sync.Mutex
	uid int
}

// NewSession creates a session for the given credentials.
func NewSession(client Client, cr Credentials) *Session {
	return &Session{client: client, cr: cr}
}

// Database returns the Odoo database name of the session.
func (s *Session) Database() string {
	return s.cr.Database
}

// UID authenticates if needed and returns the user id.
func (s *Session) UID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uid > 0 {
		return s.uid, nil
	}
	uid, err := s.client.Authenticate(ctx, s.cr)
	if err != nil {
		return 0, err
	}
	if uid <= 0 {
		return 0, AuthError(s.cr.URL, s.cr.Database, s.cr.User, nil)
	}
	slog.Debug("Authenticated in Odoo", "database", s.cr.Database, "uid", uid)
	s.uid = uid
	return uid, nil
}

// Execute runs execute_kw on a model.
func (s *Session) Execute(
	ctx context.Context,
	model, method string,
	args []any,
	kwargs map[string]any,
) (any, error) {
	uid, err := s.UID(ctx)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return s.client.ExecuteKw(ctx, s.cr, uid, model, method, args, kwargs)
}

// SearchRead returns records of a model that match the domain.
// Zero limit means no limit.
func (s *Session) SearchRead(
	ctx context.Context,
	model string,
	domain []any,
	fields []string,
	limit int,
) ([]Record, error) {
	if domain == nil {
		domain = []any{}
	}
	kw := map[string]any{}
	if len(fields) > 0 {
		kw["fields"] = fields
	}
	if limit > 0 {
		kw["limit"] = limit
	}
	res, err := s.Execute(ctx, model, "search_read", []any{domain}, kw)
	if err != nil {
		return nil, err
	}
	recs, err := ToRecords(res)
	if err != nil {
		return nil, ResponseError(model, "search_read", err)
	}
	return recs, nil
}

// Read returns records by their ids.
func (s *Session) Read(
	ctx context.Context,
	model string,
	ids []int,
	fields []string,
) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	idArgs := make([]any, len(ids))
	for i := range ids {
		idArgs[i] = ids[i]
	}
	kw := map[string]any{}
	if len(fields) > 0 {
		kw["fields"] = fields
	}
	res, err := s.Execute(ctx, model, "read", []any{idArgs}, kw)
	if err != nil {
		return nil, err
	}
	recs, err := ToRecords(res)
	if err != nil {
		return nil, ResponseError(model, "read", err)
	}
	return recs, nil
}

// FieldsGet returns field descriptions of a model, restricted to the
// given attributes.
func (s *Session) FieldsGet(
	ctx context.Context,
	model string,
	attrs []string,
) (map[string]Record, error) {
	kw := map[string]any{}
	if len(attrs) > 0 {
		kw["attributes"] = attrs
	}
	res, err := s.Execute(ctx, model, "fields_get", nil, kw)
	if err != nil {
		return nil, err
	}
	fields, err := ToFields(res)
	if err != nil {
		return nil, ResponseError(model, "fields_get", err)
	}
	return fields, nil
}
