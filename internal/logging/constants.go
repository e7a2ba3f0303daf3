package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldSheet      = "sheet"
	FieldRunID      = "run_id"
	FieldHeaderRow  = "header_row"
	FieldMethod     = "method"
	FieldColumn     = "column"
	FieldRole       = "role"
	FieldRow        = "row"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldTarget     = "target"
	FieldPolicy     = "policy"
	FieldModel      = "model"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
