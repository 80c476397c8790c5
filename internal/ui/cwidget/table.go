package cwidget

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"yolodesk/internal/metrics"
)

const defaultColumnWidth float32 = 80

// MetricsTable renders a results log: one header per column, one line per
// epoch, cells as written in the file.
type MetricsTable struct {
	widget.BaseWidget

	table *widget.Table
	data  *metrics.Table

	ColumnWidth float32
}

func NewMetricsTable() *MetricsTable {
	t := &MetricsTable{ColumnWidth: defaultColumnWidth}

	t.table = widget.NewTableWithHeaders(t.size, newCell, t.updateCell)
	t.table.ShowHeaderColumn = false
	t.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	}
	t.table.UpdateHeader = t.updateHeader

	t.ExtendBaseWidget(t)
	return t
}

func newCell() fyne.CanvasObject {
	l := widget.NewLabel("")
	l.Truncation = fyne.TextTruncateEllipsis
	return l
}

func (t *MetricsTable) size() (rows int, cols int) {
	if t.data == nil {
		return 0, 0
	}
	return len(t.data.Rows), len(t.data.Columns)
}

func (t *MetricsTable) Cell(row, col int) string {
	if t.data == nil || row < 0 || row >= len(t.data.Rows) {
		return ""
	}
	values := t.data.Rows[row].Values
	if col < 0 || col >= len(values) {
		return ""
	}
	return values[col]
}

func (t *MetricsTable) Header(col int) string {
	if t.data == nil || col < 0 || col >= len(t.data.Columns) {
		return ""
	}
	return t.data.Columns[col]
}

func (t *MetricsTable) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	o.(*widget.Label).SetText(t.Cell(id.Row, id.Col))
}

func (t *MetricsTable) updateHeader(id widget.TableCellID, o fyne.CanvasObject) {
	l := o.(*widget.Label)
	if id.Row >= 0 {
		l.SetText("")
		return
	}
	l.SetText(t.Header(id.Col))
}

// SetTable replaces the rendered log; nil clears it.
func (t *MetricsTable) SetTable(data *metrics.Table) {
	t.data = data
	if data != nil {
		for i := range data.Columns {
			t.table.SetColumnWidth(i, t.ColumnWidth)
		}
	}
	t.table.ScrollToTop()
	t.table.Refresh()
}

func (t *MetricsTable) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.table)
}
