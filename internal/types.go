package internal

// ColumnRole is one of the semantic fields a table column can carry.
type ColumnRole string

const (
	RoleName        ColumnRole = "name"
	RoleDescription ColumnRole = "description"
	RoleCategory    ColumnRole = "category"
	RoleQuantity    ColumnRole = "quantity"
	RoleUnit        ColumnRole = "unit"
	RolePrice       ColumnRole = "price"
	RoleSupplier    ColumnRole = "supplier"
)

// Roles lists every column role in classification order.
var Roles = []ColumnRole{RoleName, RoleDescription, RoleCategory, RoleQuantity, RoleUnit, RolePrice, RoleSupplier}

// RawTable is an ordered grid of cell values as produced by an upstream
// spreadsheet/CSV/HTML parser. Cells are already stringified.
type RawTable [][]string

// ColumnMapping maps column roles to zero-based column indices.
// At most one index per role; roles may be absent.
type ColumnMapping map[ColumnRole]int

// AnalysisResult is the outcome of structure analysis over a table sample.
type AnalysisResult struct {
	HeaderRowIndex int           `json:"headerRowIndex"`
	Columns        ColumnMapping `json:"columns"`
	Currency       string        `json:"currency"`
	Confidence     float64       `json:"confidence"`
}

// ExtractedItem is one normalized material line. Optional fields are nil
// when absent; Price set implies Currency set.
type ExtractedItem struct {
	Name        string
	Description *string
	Category    *string
	Quantity    *float64
	Unit        *string
	Price       *float64
	Currency    *string
	Supplier    *string
}

// ExtractionStats summarizes a finished extraction run.
type ExtractionStats struct {
	TotalRawItems     int `json:"totalRawItems"`
	UniqueItems       int `json:"uniqueItems"`
	ItemsWithPrice    int `json:"itemsWithPrice"`
	ItemsWithSupplier int `json:"itemsWithSupplier"`
	ItemsWithCategory int `json:"itemsWithCategory"`
}

// Method labels which strategy ultimately produced the items.
type Method string

const (
	MethodCSV       Method = "deterministic-csv"
	MethodTable     Method = "deterministic-spreadsheet"
	MethodHeuristic Method = "heuristic-fallback"
	MethodAI        Method = "ai-assisted"
	MethodMixed     Method = "mixed"
)

// InputKind tells the orchestrator which path to take.
type InputKind string

const (
	InputCSV   InputKind = "csv"
	InputTable InputKind = "table"
	InputText  InputKind = "text"
)

// ExtractionInput is the working material for one ingestion request.
// Exactly one of CSVText, Table, Text is populated depending on Kind.
// Mapping/HeaderRowIndex let a caller reuse a previously confirmed layout.
type ExtractionInput struct {
	Kind    InputKind
	CSVText string
	Table   RawTable
	Text    string

	Mapping        ColumnMapping
	HeaderRowIndex int
}

// ExtractionResult is handed back to the caller and to persistence.
type ExtractionResult struct {
	Items    []ExtractedItem
	Stats    ExtractionStats
	Method   Method
	Analysis *AnalysisResult
}

// DocumentRow mirrors a persisted source document.
type DocumentRow struct {
	ID        int
	Kind      string
	Filename  string
	Hash      string
	CreatedAt string
}
