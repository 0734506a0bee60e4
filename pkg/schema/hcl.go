package schema

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

// DefaultHCLSchema is the schema block name tables are attached to.
const DefaultHCLSchema = "main"

var hclTypeNames = map[string]string{
	"integer":   "int",
	"int":       "int",
	"bigint":    "int",
	"smallint":  "int",
	"tinyint":   "int",
	"text":      "varchar",
	"varchar":   "varchar",
	"char":      "varchar",
	"string":    "varchar",
	"real":      "float",
	"float":     "float",
	"double":    "float",
	"decimal":   "decimal",
	"numeric":   "decimal",
	"boolean":   "bool",
	"bool":      "bool",
	"date":      "date",
	"datetime":  "datetime",
	"timestamp": "datetime",
	"time":      "varchar",
	"blob":      "blob",
	"binary":    "blob",
}

var sqlTypeNames = map[string]string{
	"int":      "INTEGER",
	"bool":     "BOOLEAN",
	"text":     "TEXT",
	"datetime": "DATETIME",
	"date":     "DATE",
	"float":    "REAL",
	"double":   "REAL",
	"decimal":  "DECIMAL",
	"json":     "JSON",
	"blob":     "BLOB",
}

type hclColumn struct {
	Name          string
	Type          string
	Size          int
	Null          bool
	AutoIncrement bool
	// Default is a SQL literal: NULL, TRUE, 42 or 'text'.
	Default *string
}

type hclTable struct {
	Name       string
	Columns    []hclColumn
	PrimaryKey []string
}

// hclType maps a declared sqlite type to an Atlas type name and size.
func hclType(sqlType string) (string, int) {
	lower := strings.ToLower(strings.TrimSpace(sqlType))
	if lower == "" {
		return "varchar", 0
	}
	base, rest, sized := strings.Cut(lower, "(")
	base = strings.TrimSpace(base)
	if sized && strings.Contains(base, "varchar") {
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(rest, ")"))); err == nil {
			return "varchar", n
		}
		return "varchar", 0
	}
	if name, ok := hclTypeNames[base]; ok {
		return name, 0
	}
	return "varchar", 0
}

// toHCLColumn applies the export conventions: id is an autoincrement
// primary key, enable is a boolean defaulting to true and time-typed
// columns are stored as varchar.
func toHCLColumn(c Column) hclColumn {
	out := hclColumn{Name: c.Name, Null: !c.NotNull, Default: c.Default}
	sqlType := c.Type

	switch {
	case strings.EqualFold(c.Name, "id"):
		sqlType = "integer"
		out.Null = false
		out.AutoIncrement = true
	case strings.EqualFold(c.Name, "enable"):
		sqlType = "boolean"
		enabled := "TRUE"
		out.Default = &enabled
	case strings.Contains(strings.ToLower(c.Type), "time"):
		sqlType = "varchar"
	}

	out.Type, out.Size = hclType(sqlType)
	return out
}

func typeTokens(c hclColumn) hclwrite.Tokens {
	if c.Size > 0 {
		return hclwrite.TokensForFunctionCall(c.Type, hclwrite.TokensForValue(cty.NumberIntVal(int64(c.Size))))
	}
	return hclwrite.TokensForIdentifier(c.Type)
}

func defaultValue(literal string) cty.Value {
	switch {
	case strings.EqualFold(literal, "null"):
		return cty.NullVal(cty.DynamicPseudoType)
	case strings.EqualFold(literal, "true"):
		return cty.True
	case strings.EqualFold(literal, "false"):
		return cty.False
	}
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return cty.NumberIntVal(n)
	}
	if len(literal) >= 2 && literal[0] == '\'' && literal[len(literal)-1] == '\'' {
		literal = strings.ReplaceAll(literal[1:len(literal)-1], "''", "'")
	}
	return cty.StringVal(literal)
}

func columnRef(name string) hcl.Traversal {
	return hcl.Traversal{hcl.TraverseRoot{Name: "column"}, hcl.TraverseAttr{Name: name}}
}

func writeHCL(tables []hclTable, schemaName string) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.AppendNewBlock("schema", []string{schemaName})

	for _, t := range tables {
		body.AppendNewline()
		tb := body.AppendNewBlock("table", []string{t.Name}).Body()
		tb.SetAttributeTraversal("schema", hcl.Traversal{
			hcl.TraverseRoot{Name: "schema"},
			hcl.TraverseAttr{Name: schemaName},
		})

		for _, c := range t.Columns {
			tb.AppendNewline()
			cb := tb.AppendNewBlock("column", []string{c.Name}).Body()
			cb.SetAttributeRaw("type", typeTokens(c))
			cb.SetAttributeValue("null", cty.BoolVal(c.Null))
			if c.AutoIncrement {
				cb.SetAttributeValue("auto_increment", cty.True)
			}
			if c.Default != nil {
				cb.SetAttributeValue("default", defaultValue(*c.Default))
			}
		}

		if len(t.PrimaryKey) > 0 {
			refs := make([]hclwrite.Tokens, 0, len(t.PrimaryKey))
			for _, name := range t.PrimaryKey {
				refs = append(refs, hclwrite.TokensForTraversal(columnRef(name)))
			}
			tb.AppendNewline()
			pb := tb.AppendNewBlock("primary_key", nil).Body()
			pb.SetAttributeRaw("columns", hclwrite.TokensForTuple(refs))
		}
	}

	return hclwrite.Format(f.Bytes())
}

func countColumns(tables []hclTable) int {
	return common.Reducer(tables, func(n int, t hclTable) int { return n + len(t.Columns) }, 0)
}

// HCL writes every user table of the database to w as an Atlas HCL schema
// named schemaName. It writes nothing and returns ErrNoTables when the
// database has no user tables.
func HCL(ctx context.Context, q Queryer, w io.Writer, schemaName string) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSchema,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryHCL),
	)

	names, err := UserTables(ctx, q)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		logger.Warn("No user tables found in database")
		return ErrNoTables
	}

	tables := make([]hclTable, 0, len(names))
	for _, name := range names {
		cols, err := Columns(ctx, q, name)
		if err != nil {
			return err
		}

		t := hclTable{Name: name, Columns: common.Mapper(cols, toHCLColumn)}
		for _, c := range cols {
			if c.PK || strings.EqualFold(c.Name, "id") {
				t.PrimaryKey = append(t.PrimaryKey, c.Name)
			}
		}
		tables = append(tables, t)
	}

	if _, err := w.Write(writeHCL(tables, schemaName)); err != nil {
		return &Error{Op: OpHCL, Err: err}
	}

	logger.Info("Exported HCL schema",
		zap.String("schema", schemaName),
		zap.Int("tables", len(tables)),
		zap.Int("columns", countColumns(tables)),
	)
	return nil
}

var (
	hclFileSchema = &hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "schema", LabelNames: []string{"name"}},
			{Type: "table", LabelNames: []string{"name"}},
		},
	}
	hclTableSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "schema"}},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "column", LabelNames: []string{"name"}},
			{Type: "primary_key"},
		},
	}
	hclColumnSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "type", Required: true},
			{Name: "null"},
			{Name: "default"},
			{Name: "auto_increment"},
		},
	}
	hclPrimaryKeySchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "columns", Required: true}},
	}
)

// parseHCL reads the table, column and primary_key blocks of an Atlas HCL
// schema. Other blocks and attributes (indexes, comments) are ignored.
func parseHCL(src []byte, filename string) ([]hclTable, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	content, _, diags := file.Body.PartialContent(hclFileSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var tables []hclTable
	for _, block := range content.Blocks.OfType("table") {
		t := hclTable{Name: block.Labels[0]}

		tc, _, diags := block.Body.PartialContent(hclTableSchema)
		if diags.HasErrors() {
			return nil, diags
		}

		for _, cb := range tc.Blocks.OfType("column") {
			c, diags := parseHCLColumn(cb)
			if diags.HasErrors() {
				return nil, diags
			}
			t.Columns = append(t.Columns, c)
		}

		for _, pb := range tc.Blocks.OfType("primary_key") {
			pk, diags := parseHCLPrimaryKey(pb)
			if diags.HasErrors() {
				return nil, diags
			}
			t.PrimaryKey = pk
		}

		tables = append(tables, t)
	}
	return tables, nil
}

func parseHCLColumn(block *hcl.Block) (hclColumn, hcl.Diagnostics) {
	c := hclColumn{Name: block.Labels[0], Null: true}

	content, _, diags := block.Body.PartialContent(hclColumnSchema)
	if diags.HasErrors() {
		return c, diags
	}

	attr := content.Attributes["type"]
	if kw := hcl.ExprAsKeyword(attr.Expr); kw != "" {
		c.Type = kw
	} else {
		call, diags := hcl.ExprCall(attr.Expr)
		if diags.HasErrors() {
			return c, diags
		}
		if len(call.Arguments) != 1 {
			return c, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid column type",
				Detail:   fmt.Sprintf("%s takes exactly one size argument.", call.Name),
				Subject:  &call.ArgsRange,
			}}
		}
		size, diags := call.Arguments[0].Value(nil)
		if diags.HasErrors() {
			return c, diags
		}
		if size.IsNull() || size.Type() != cty.Number {
			return c, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid column type",
				Detail:   "The type size must be a number.",
				Subject:  call.Arguments[0].Range().Ptr(),
			}}
		}
		n, _ := size.AsBigFloat().Int64()
		c.Type, c.Size = call.Name, int(n)
	}

	if attr, ok := content.Attributes["null"]; ok {
		v, diags := boolAttr(attr)
		if diags.HasErrors() {
			return c, diags
		}
		c.Null = v
	}
	if attr, ok := content.Attributes["auto_increment"]; ok {
		v, diags := boolAttr(attr)
		if diags.HasErrors() {
			return c, diags
		}
		c.AutoIncrement = v
	}
	if attr, ok := content.Attributes["default"]; ok {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return c, diags
		}
		literal := sqlLiteral(v)
		c.Default = &literal
	}

	return c, nil
}

func boolAttr(attr *hcl.Attribute) (bool, hcl.Diagnostics) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return false, diags
	}
	if v.IsNull() || v.Type() != cty.Bool {
		return false, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("%s must be true or false.", attr.Name),
			Subject:  &attr.Range,
		}}
	}
	return v.True(), nil
}

func sqlLiteral(v cty.Value) string {
	switch {
	case v.IsNull():
		return "NULL"
	case v.Type() == cty.Bool:
		if v.True() {
			return "TRUE"
		}
		return "FALSE"
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case v.Type() == cty.String:
		return "'" + strings.ReplaceAll(v.AsString(), "'", "''") + "'"
	default:
		return "NULL"
	}
}

func parseHCLPrimaryKey(block *hcl.Block) ([]string, hcl.Diagnostics) {
	content, _, diags := block.Body.PartialContent(hclPrimaryKeySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	exprs, diags := hcl.ExprList(content.Attributes["columns"].Expr)
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		traversal, diags := hcl.AbsTraversalForExpr(expr)
		if diags.HasErrors() {
			return nil, diags
		}
		attr, ok := traversal[len(traversal)-1].(hcl.TraverseAttr)
		if !ok || traversal.RootName() != "column" {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid primary key",
				Detail:   "Primary key columns must be column.<name> references.",
				Subject:  expr.Range().Ptr(),
			}}
		}
		names = append(names, attr.Name)
	}
	return names, nil
}

func ddlType(c hclColumn) string {
	if c.Type == "varchar" {
		if c.Size > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.Size)
		}
		return "VARCHAR(255)"
	}
	name, ok := sqlTypeNames[c.Type]
	if !ok {
		name = strings.ToUpper(c.Type)
	}
	if c.Size > 0 {
		return fmt.Sprintf("%s(%d)", name, c.Size)
	}
	return name
}

func createStatement(t hclTable) string {
	singlePK := ""
	if len(t.PrimaryKey) == 1 {
		singlePK = t.PrimaryKey[0]
	}

	defs := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		def := []string{c.Name, ddlType(c)}
		if c.Name == singlePK {
			def = append(def, "PRIMARY KEY")
			// sqlite only accepts AUTOINCREMENT on an INTEGER PRIMARY KEY
			if c.AutoIncrement {
				def = append(def, "AUTOINCREMENT")
			}
		}
		if !c.Null {
			def = append(def, "NOT NULL")
		}
		if c.Default != nil {
			def = append(def, "DEFAULT", *c.Default)
		}
		defs = append(defs, "    "+strings.Join(def, " "))
	}
	if len(t.PrimaryKey) > 1 {
		defs = append(defs, "    PRIMARY KEY ("+strings.Join(t.PrimaryKey, ", ")+")")
	}

	return "CREATE TABLE " + t.Name + " (\n" + strings.Join(defs, ",\n") + "\n)"
}

var hclDDLHeader = []string{
	"-- SQL DDL generated from HCL schema",
	"-- Generated with HCL to DDL converter",
}

// DDLFromHCL converts an Atlas HCL schema to CREATE TABLE statements, one
// per table block in file order. It writes nothing and returns ErrNoTables
// when src holds no table. Parse errors are hcl.Diagnostics wrapped in
// *Error.
func DDLFromHCL(src []byte, filename string, w io.Writer) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSchema,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryHCL),
	)

	tables, err := parseHCL(src, filename)
	if err != nil {
		return &Error{Op: OpHCL, Err: err}
	}
	if len(tables) == 0 {
		logger.Warn("No tables found in HCL file", zap.String("file", filename))
		return ErrNoTables
	}

	var sb strings.Builder
	for _, line := range hclDDLHeader {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
	for _, t := range tables {
		sb.WriteString(createStatement(t) + ";\n\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return &Error{Op: OpHCL, Err: err}
	}

	logger.Info("Converted HCL schema",
		zap.String("file", filename),
		zap.Int("tables", len(tables)),
		zap.Int("columns", countColumns(tables)),
	)
	return nil
}
