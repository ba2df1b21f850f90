package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpOpen
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmQuit
	ConfirmOverwriteFile
	ConfirmNewMap
)

// Terminal cells are drawn as cellWidth x cellHeight world units at zoom 1,
// the same character box the PNG exporter used for text.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	panStep       = 4 // cells
	fastPanFactor = 4
	defaultFile   = "mindmap.json"
	defaultPNG    = "mindmap.png"
)
