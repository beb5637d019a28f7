// Package gograph defines query generation strategies for the two model kinds.
package gograph

import (
	"fmt"
	"reflect"

	"github.com/CaliLuke/go-kuzu/cypher"
)

// ModelStrategy specifies the interface for building Cypher queries based
// on the kind of model (node or rel).
type ModelStrategy interface {
	// BuildInsertQuery generates a CREATE statement for an instance,
	// returning the new internal ID under the "_id" alias.
	BuildInsertQuery(info *ModelInfo, instance any, varName string) (string, error)
	// BuildPutQuery generates a MERGE (upsert) statement for an instance.
	BuildPutQuery(info *ModelInfo, instance any, varName string) (string, error)
	// BuildMatchByKey generates a MATCH clause pinned by the model's
	// primary key, or by internal ID when the instance is bound.
	BuildMatchByKey(info *ModelInfo, instance any, varName string) (string, error)
	// BuildMatchByID generates a MATCH clause pinned by internal ID.
	BuildMatchByID(info *ModelInfo, id InternalID, varName string) string
	// BuildMatchAll generates a MATCH clause for all instances of the table.
	BuildMatchAll(info *ModelInfo, varName string) string
	// BuildReturnAll generates the RETURN clause yielding everything
	// hydration needs for this model kind.
	BuildReturnAll(info *ModelInfo, varName string) string
}

// strategyFor returns the appropriate strategy for the given model kind.
func strategyFor(kind ModelKind) ModelStrategy {
	if kind == ModelKindRel {
		return &relStrategy{}
	}
	return &nodeStrategy{}
}

var compiler = &cypher.Compiler{}

// --- Node strategy ---

type nodeStrategy struct{}

func (s *nodeStrategy) BuildInsertQuery(info *ModelInfo, instance any, varName string) (string, error) {
	v := reflectValue(instance)
	props := propertyList(v, info, true)

	create, err := compiler.Compile(cypher.Create(cypher.NodePattern{
		Variable:   varName,
		Labels:     []string{info.TableName},
		Properties: props,
	}))
	if err != nil {
		return "", err
	}
	ret, err := compiler.Compile(cypher.Return(
		cypher.As(cypher.ID(varName), "_new_id"),
	))
	if err != nil {
		return "", err
	}
	return create + "\n" + ret, nil
}

func (s *nodeStrategy) BuildPutQuery(info *ModelInfo, instance any, varName string) (string, error) {
	v := reflectValue(instance)

	pkVal := extractSingleFieldValue(v, *info.PK)
	if pkVal == nil || reflect.ValueOf(pkVal).IsZero() {
		return "", &PrimaryKeyError{
			TableName: info.TableName,
			FieldName: info.PK.Tag.Name,
			Operation: "put",
		}
	}

	merge := cypher.Merge(cypher.NodePattern{
		Variable:   varName,
		Labels:     []string{info.TableName},
		Properties: []cypher.Property{cypher.PropLit(info.PK.Tag.Name, pkVal)},
	})
	for _, fi := range info.Fields {
		if fi.Tag.IsKey() {
			continue
		}
		val := extractSingleFieldValue(v, fi)
		if val == nil && fi.IsPointer {
			continue
		}
		merge.OnCreate = append(merge.OnCreate, cypher.SetProp(varName, fi.Tag.Name, val))
		merge.OnMatch = append(merge.OnMatch, cypher.SetProp(varName, fi.Tag.Name, val))
	}

	mergeStr, err := compiler.Compile(merge)
	if err != nil {
		return "", err
	}
	ret, err := compiler.Compile(cypher.Return(
		cypher.As(cypher.ID(varName), "_new_id"),
	))
	if err != nil {
		return "", err
	}
	return mergeStr + "\n" + ret, nil
}

func (s *nodeStrategy) BuildMatchByKey(info *ModelInfo, instance any, varName string) (string, error) {
	v := reflectValue(instance)

	if id, ok := idOfValue(v); ok {
		return s.BuildMatchByID(info, id, varName), nil
	}

	pkVal := extractSingleFieldValue(v, *info.PK)
	if pkVal == nil {
		return "", &PrimaryKeyError{
			TableName: info.TableName,
			FieldName: info.PK.Tag.Name,
			Operation: "match",
		}
	}
	match, err := compiler.Compile(cypher.Match(cypher.NodePattern{
		Variable:   varName,
		Labels:     []string{info.TableName},
		Properties: []cypher.Property{cypher.PropLit(info.PK.Tag.Name, pkVal)},
	}))
	if err != nil {
		return "", err
	}
	return match, nil
}

func (s *nodeStrategy) BuildMatchByID(info *ModelInfo, id InternalID, varName string) string {
	// The label pins the table, so only the offset needs comparing.
	match, _ := compiler.Compile(
		cypher.Match(cypher.Node(varName, info.TableName)).
			WithWhere(cypher.Eq(offsetOf(varName), id.Offset)),
	)
	return match
}

func (s *nodeStrategy) BuildMatchAll(info *ModelInfo, varName string) string {
	match, _ := compiler.Compile(cypher.Match(cypher.Node(varName, info.TableName)))
	return match
}

func (s *nodeStrategy) BuildReturnAll(info *ModelInfo, varName string) string {
	ret, _ := compiler.Compile(cypher.Return(
		cypher.As(cypher.Var(varName), varName),
	))
	return ret
}

// --- Rel strategy ---

type relStrategy struct{}

const (
	srcVar = "src"
	dstVar = "dst"
)

func (s *relStrategy) BuildInsertQuery(info *ModelInfo, instance any, varName string) (string, error) {
	v := reflectValue(instance)

	match, err := endpointMatch(info, v)
	if err != nil {
		return "", err
	}

	props := propertyList(v, info, true)
	create, err := compiler.Compile(cypher.Create(
		cypher.Path(cypher.AnyNode(srcVar)).
			To(cypher.RelPattern{Variable: varName, Types: []string{info.TableName}, Properties: props},
				cypher.AnyNode(dstVar)),
	))
	if err != nil {
		return "", err
	}
	ret, err := compiler.Compile(cypher.Return(
		cypher.As(cypher.ID(varName), "_new_id"),
	))
	if err != nil {
		return "", err
	}
	return match + "\n" + create + "\n" + ret, nil
}

func (s *relStrategy) BuildPutQuery(info *ModelInfo, instance any, varName string) (string, error) {
	v := reflectValue(instance)

	match, err := endpointMatch(info, v)
	if err != nil {
		return "", err
	}

	merge := cypher.Merge(
		cypher.Path(cypher.AnyNode(srcVar)).
			To(cypher.RelPattern{Variable: varName, Types: []string{info.TableName}},
				cypher.AnyNode(dstVar)),
	)
	for _, fi := range info.Fields {
		val := extractSingleFieldValue(v, fi)
		if val == nil && fi.IsPointer {
			continue
		}
		merge.OnCreate = append(merge.OnCreate, cypher.SetProp(varName, fi.Tag.Name, val))
		merge.OnMatch = append(merge.OnMatch, cypher.SetProp(varName, fi.Tag.Name, val))
	}

	mergeStr, err := compiler.Compile(merge)
	if err != nil {
		return "", err
	}
	ret, err := compiler.Compile(cypher.Return(
		cypher.As(cypher.ID(varName), "_new_id"),
	))
	if err != nil {
		return "", err
	}
	return match + "\n" + mergeStr + "\n" + ret, nil
}

func (s *relStrategy) BuildMatchByKey(info *ModelInfo, instance any, varName string) (string, error) {
	v := reflectValue(instance)
	if id, ok := idOfValue(v); ok {
		return s.BuildMatchByID(info, id, varName), nil
	}
	return "", fmt.Errorf("rel %s: instance is not bound and rel tables have no primary key", info.TableName)
}

func (s *relStrategy) BuildMatchByID(info *ModelInfo, id InternalID, varName string) string {
	match, _ := compiler.Compile(
		cypher.Match(relPath(info, varName)).
			WithWhere(cypher.Eq(offsetOf(varName), id.Offset)),
	)
	return match
}

func (s *relStrategy) BuildMatchAll(info *ModelInfo, varName string) string {
	match, _ := compiler.Compile(cypher.Match(relPath(info, varName)))
	return match
}

func (s *relStrategy) BuildReturnAll(info *ModelInfo, varName string) string {
	ret, _ := compiler.Compile(cypher.Return(
		cypher.As(cypher.Var(varName), varName),
		cypher.As(cypher.Var(srcVar), srcVar),
		cypher.As(cypher.Var(dstVar), dstVar),
	))
	return ret
}

// relPath builds the (src:From)-[r:Rel]->(dst:To) pattern for a rel model.
func relPath(info *ModelInfo, varName string) cypher.PathPattern {
	return cypher.Path(cypher.Node(srcVar, info.From.TableName)).
		To(cypher.Rel(varName, info.TableName), cypher.Node(dstVar, info.To.TableName))
}

// endpointMatch builds the MATCH clause pinning both endpoints of a rel
// instance, preferring internal IDs over primary keys.
func endpointMatch(info *ModelInfo, v reflect.Value) (string, error) {
	srcPattern, srcCond, err := endpointPattern(v, info.From, srcVar)
	if err != nil {
		return "", fmt.Errorf("rel %s: from endpoint: %w", info.TableName, err)
	}
	dstPattern, dstCond, err := endpointPattern(v, info.To, dstVar)
	if err != nil {
		return "", fmt.Errorf("rel %s: to endpoint: %w", info.TableName, err)
	}

	match := cypher.Match(srcPattern, dstPattern)
	if cond := cypher.And(conds(srcCond, dstCond)...); cond != nil {
		match = match.WithWhere(cond)
	}
	return compiler.Compile(match)
}

func endpointPattern(v reflect.Value, ep *EndpointInfo, varName string) (cypher.NodePattern, cypher.Expr, error) {
	field := v.Field(ep.FieldIndex)
	if field.Kind() != reflect.Ptr || field.IsNil() {
		return cypher.NodePattern{}, nil, fmt.Errorf("endpoint %s is not set", ep.FieldName)
	}
	target := field.Elem()

	if id, ok := idOfValue(target); ok {
		return cypher.Node(varName, ep.TableName), cypher.Eq(offsetOf(varName), id.Offset), nil
	}

	targetInfo, ok := LookupType(target.Type())
	if !ok {
		return cypher.NodePattern{}, nil, &NotRegisteredError{TypeName: target.Type().Name()}
	}
	pkVal := extractSingleFieldValue(target, *targetInfo.PK)
	if pkVal == nil || reflect.ValueOf(pkVal).IsZero() {
		return cypher.NodePattern{}, nil, &PrimaryKeyError{
			TableName: targetInfo.TableName,
			FieldName: targetInfo.PK.Tag.Name,
			Operation: "endpoint match",
		}
	}
	return cypher.NodePattern{
		Variable:   varName,
		Labels:     []string{ep.TableName},
		Properties: []cypher.Property{cypher.PropLit(targetInfo.PK.Tag.Name, pkVal)},
	}, nil, nil
}

func conds(exprs ...cypher.Expr) []cypher.Expr {
	out := make([]cypher.Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// offsetOf builds offset(id(v)), the offset half of a node's internal ID.
func offsetOf(varName string) cypher.Expr {
	return cypher.Func("offset", cypher.ID(varName))
}

// --- Helpers ---

func reflectValue(instance any) reflect.Value {
	v := reflect.ValueOf(instance)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v
}

// propertyList collects inline pattern properties for an instance.
// SERIAL columns are engine-assigned, so they are skipped on insert.
func propertyList(v reflect.Value, info *ModelInfo, skipSerial bool) []cypher.Property {
	var props []cypher.Property
	for _, fi := range info.Fields {
		if skipSerial && fi.Tag.Serial {
			continue
		}
		val := extractSingleFieldValue(v, fi)
		if val == nil {
			continue
		}
		props = append(props, cypher.PropLit(fi.Tag.Name, val))
	}
	return props
}

func extractSingleFieldValue(v reflect.Value, fi FieldInfo) any {
	field := v.Field(fi.FieldIndex)
	if fi.IsPointer {
		if field.IsNil() {
			return nil
		}
		return field.Elem().Interface()
	}
	return field.Interface()
}

// idOfValue returns the internal ID of a model value when it is bound.
func idOfValue(v reflect.Value) (InternalID, bool) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		fv := v.Field(i)
		if !fv.CanAddr() {
			continue
		}
		if n, ok := fv.Addr().Interface().(*BaseNode); ok {
			if n.HasID() {
				return n.GetID(), true
			}
			return InternalID{}, false
		}
		if r, ok := fv.Addr().Interface().(*BaseRel); ok {
			if r.HasID() {
				return r.GetID(), true
			}
			return InternalID{}, false
		}
	}
	return InternalID{}, false
}

// setIDOnValue binds an internal ID to a model value.
func setIDOnValue(v reflect.Value, id InternalID) {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		fv := v.Field(i)
		if !fv.CanAddr() {
			continue
		}
		if n, ok := fv.Addr().Interface().(*BaseNode); ok {
			n.SetID(id)
			return
		}
		if r, ok := fv.Addr().Interface().(*BaseRel); ok {
			r.SetID(id)
			return
		}
	}
}
