package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/pagination"
	"gorm.io/gorm"
)

// VarValidator checks one value against a validator tag.
type VarValidator func(field string, value any, rules string) error

// ListQuery carries list parameters after parsing.
type ListQuery struct {
	Page    pagination.Params
	Filters map[string]string
	Search  string
}

// Engine implements list/get/create/update/delete for one model.
type Engine[T any] struct {
	conn     *gorm.DB
	schema   Schema[T]
	validate VarValidator
	fields   map[string]Field
}

func NewEngine[T any](conn *gorm.DB, schema Schema[T], validate VarValidator) (*Engine[T], error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if validate == nil {
		return nil, fmt.Errorf("validator required")
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	if schema.Order == "" {
		schema.Order = "id DESC"
	}
	fields := make(map[string]Field, len(schema.Fields))
	for _, f := range schema.Fields {
		fields[f.Name] = f
	}
	return &Engine[T]{conn: conn, schema: schema, validate: validate, fields: fields}, nil
}

func (e *Engine[T]) Schema() Schema[T] {
	return e.schema
}

func (e *Engine[T]) notFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, e.schema.Label+" not found")
}

// Get loads one record by id.
func (e *Engine[T]) Get(ctx context.Context, id int64) (*T, error) {
	var record T
	if err := e.conn.WithContext(ctx).First(&record, id).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, e.notFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+e.schema.Label)
	}
	return &record, nil
}

// List returns one page ordered by the schema order.
func (e *Engine[T]) List(ctx context.Context, q ListQuery) (pagination.List[T], error) {
	query := e.conn.WithContext(ctx).Model(new(T))

	for _, f := range e.schema.Filters {
		raw := strings.TrimSpace(q.Filters[f.Param])
		if raw == "" {
			continue
		}
		val, err := coerce(Field{Name: f.Param, Kind: f.Kind}, raw)
		if err != nil {
			return pagination.List[T]{}, err
		}
		query = query.Where(fmt.Sprintf("%s = ?", f.Column), val)
	}

	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" && len(e.schema.Search) > 0 {
		clauses := make([]string, 0, len(e.schema.Search))
		args := make([]any, 0, len(e.schema.Search))
		for _, col := range e.schema.Search {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? %s", col, db.LikeEscape))
			args = append(args, db.ContainsPattern(term))
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pagination.List[T]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count "+e.schema.Name)
	}

	var items []T
	if err := query.Order(e.schema.Order).Scopes(q.Page.Scope()).Find(&items).Error; err != nil {
		return pagination.List[T]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list "+e.schema.Name)
	}
	return pagination.NewList(items, q.Page, total), nil
}

// Create validates body and inserts a new record.
func (e *Engine[T]) Create(ctx context.Context, body map[string]any) (*T, error) {
	values := Values{}
	for _, f := range e.schema.Fields {
		raw, present := body[f.Name]
		if !present || isBlank(raw) {
			if f.Required {
				return nil, pkgerrors.Validation(f.Name, "is required")
			}
			if f.Default == nil {
				continue
			}
			raw = f.Default
		}
		val, err := e.accept(f, raw)
		if err != nil {
			return nil, err
		}
		values[f.Name] = val
	}

	if err := e.runChecks(values); err != nil {
		return nil, err
	}
	if err := e.checkUnique(ctx, values, nil, 0); err != nil {
		return nil, err
	}
	if err := e.checkParents(ctx, values, nil); err != nil {
		return nil, err
	}

	record := new(T)
	if err := apply(record, values); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+e.schema.Label)
	}
	if e.schema.Mutate != nil {
		if err := e.schema.Mutate(ctx, record, values, true); err != nil {
			return nil, err
		}
	}
	if err := e.conn.WithContext(ctx).Create(record).Error; err != nil {
		return nil, e.writeError(err, "create")
	}
	return record, nil
}

// Update applies the recognized fields of body to an existing record.
func (e *Engine[T]) Update(ctx context.Context, id int64, body map[string]any) (*T, error) {
	record, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := Values{}
	for _, f := range e.schema.Fields {
		raw, present := body[f.Name]
		if !present {
			continue
		}
		if f.WriteOnly && isBlank(raw) {
			continue
		}
		val, err := e.accept(f, raw)
		if err != nil {
			return nil, err
		}
		patch[f.Name] = val
	}
	if len(patch) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided").
			WithDetails(map[string]any{"fields": e.fieldNames()})
	}

	stored, err := e.storedValues(record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read "+e.schema.Label)
	}
	merged := Values{}
	for k, v := range stored {
		merged[k] = v
	}
	changed := map[string]bool{}
	for k, v := range patch {
		merged[k] = v
		if f := e.fields[k]; f.WriteOnly || !sameValue(f, stored[k], v) {
			changed[k] = true
		}
	}

	if err := e.runChecks(merged); err != nil {
		return nil, err
	}
	if err := e.checkUnique(ctx, merged, changed, id); err != nil {
		return nil, err
	}
	if err := e.checkParents(ctx, merged, changed); err != nil {
		return nil, err
	}

	if err := apply(record, patch); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+e.schema.Label)
	}
	if e.schema.Mutate != nil {
		if err := e.schema.Mutate(ctx, record, patch, false); err != nil {
			return nil, err
		}
	}
	if err := e.conn.WithContext(ctx).Save(record).Error; err != nil {
		return nil, e.writeError(err, "update")
	}
	return record, nil
}

// Delete physically removes a record.
func (e *Engine[T]) Delete(ctx context.Context, id int64) error {
	if _, err := e.Get(ctx, id); err != nil {
		return err
	}
	if err := e.conn.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		if db.IsForeignKeyViolation(err, "") {
			dependent := "other records"
			if table := db.ReferencingTable(err); table != "" {
				dependent = table
			}
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err,
				fmt.Sprintf("%s %d is still referenced by %s", e.schema.Label, id, dependent)).
				WithDetails(map[string]any{"referenced_by": dependent})
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete "+e.schema.Label)
	}
	return nil
}

func (e *Engine[T]) accept(f Field, raw any) (any, error) {
	val, err := coerce(f, raw)
	if err != nil {
		return nil, err
	}
	if val == nil || f.Rules == "" {
		return val, nil
	}
	if err := e.validate(f.Name, ruleValue(val), f.Rules); err != nil {
		return nil, err
	}
	return val, nil
}

func (e *Engine[T]) runChecks(values Values) error {
	for _, check := range e.schema.Checks {
		if err := check(values); err != nil {
			return err
		}
	}
	return nil
}

// checkUnique runs natural-key rules; on update only rules touching a changed field.
func (e *Engine[T]) checkUnique(ctx context.Context, values Values, changed map[string]bool, selfID int64) error {
	for _, rule := range e.schema.Unique {
		if changed != nil && !anyChanged(rule.Fields, changed) {
			continue
		}
		query := e.conn.WithContext(ctx).Model(new(T))
		skip := false
		parts := make([]string, 0, len(rule.Fields))
		for _, name := range rule.Fields {
			val, ok := values[name]
			if !ok || val == nil {
				skip = true
				break
			}
			query = query.Where(fmt.Sprintf("%s = ?", e.fields[name].column()), ruleValue(val))
			parts = append(parts, fmt.Sprintf("%s %v", name, val))
		}
		if skip {
			continue
		}
		if selfID > 0 {
			query = query.Where("id <> ?", selfID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check "+e.schema.Label+" uniqueness")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("%s with %s already exists", e.schema.Label, strings.Join(parts, " and "))).
				WithDetails(map[string]any{"fields": rule.Fields})
		}
	}
	return nil
}

func (e *Engine[T]) checkParents(ctx context.Context, values Values, changed map[string]bool) error {
	for _, parent := range e.schema.Parents {
		if changed != nil && !changed[parent.Field] {
			continue
		}
		val, ok := values[parent.Field]
		if !ok || val == nil {
			continue
		}
		var count int64
		if err := e.conn.WithContext(ctx).Table(parent.Table).Where("id = ?", val).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up "+parent.Label)
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s %v not found", parent.Label, val))
		}
	}
	return nil
}

func (e *Engine[T]) writeError(err error, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, e.schema.Label+" already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, op+" "+e.schema.Label)
}

// storedValues reads the record's current field values through its JSON form.
func (e *Engine[T]) storedValues(record *T) (Values, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var generic map[string]any
	if err := decoder.Decode(&generic); err != nil {
		return nil, err
	}
	out := Values{}
	for _, f := range e.schema.Fields {
		if f.WriteOnly {
			continue
		}
		v, ok := generic[f.Name]
		if !ok {
			continue
		}
		out[f.Name] = storedValue(f, v)
	}
	return out, nil
}

func storedValue(f Field, raw any) any {
	if raw == nil {
		return nil
	}
	switch f.Kind {
	case KindInt:
		if n, err := toInt(raw); err == nil {
			return n
		}
	case KindDecimal:
		if d, err := toDecimal(raw); err == nil {
			return d
		}
	}
	return raw
}

func (e *Engine[T]) fieldNames() []string {
	names := make([]string, 0, len(e.fields))
	for name, f := range e.fields {
		if !f.WriteOnly {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// apply writes values onto record through JSON, leaving absent keys untouched.
func apply[T any](record *T, values Values) error {
	payload := make(map[string]any, len(values))
	for k, v := range values {
		payload[k] = jsonValue(v)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, record)
}

func anyChanged(fields []string, changed map[string]bool) bool {
	for _, f := range fields {
		if changed[f] {
			return true
		}
	}
	return false
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}
