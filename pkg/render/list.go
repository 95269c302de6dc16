package render

import (
	"github.com/goliatone/go-userdesk/pkg/crud"
	"github.com/goliatone/go-userdesk/pkg/schema"
)

// ColumnView is one table header cell.
type ColumnView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// RowView is one record row: the cell values in column order plus the ids the
// row's edit/delete actions target.
type RowView struct {
	ID        string   `json:"id"`
	Cells     []string `json:"cells"`
	EditURL   string   `json:"editUrl"`
	DeleteURL string   `json:"deleteUrl"`
	Deleting  bool     `json:"deleting"`
}

// ListView is the user list page payload.
type ListView struct {
	Title      string       `json:"title"`
	NewURL     string       `json:"newUrl"`
	Columns    []ColumnView `json:"columns"`
	Rows       []RowView    `json:"rows"`
	Empty      bool         `json:"empty"`
	Flash      string       `json:"flash,omitempty"`
	FlashError string       `json:"flashError,omitempty"`
}

// BuildListView projects records onto the schema's columns in declaration
// order. Records missing a field render an empty cell rather than shifting
// the row.
func BuildListView(fields schema.Fields, records []crud.Record, urls ListURLs) ListView {
	view := ListView{
		Title:   "Users",
		NewURL:  urls.New,
		Columns: make([]ColumnView, 0, len(fields)),
		Rows:    make([]RowView, 0, len(records)),
		Empty:   len(records) == 0,
	}

	for _, field := range fields {
		view.Columns = append(view.Columns, ColumnView{Name: field.Name, Label: field.Label})
	}

	for _, record := range records {
		row := RowView{
			ID:        record.ID,
			Cells:     make([]string, 0, len(fields)),
			EditURL:   urls.Edit(record.ID),
			DeleteURL: urls.Delete(record.ID),
		}
		for _, field := range fields {
			row.Cells = append(row.Cells, record.Values.Value(field.Name))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// ListURLs supplies the routes the list page links to.
type ListURLs struct {
	New    string
	Edit   func(id string) string
	Delete func(id string) string
}

// DefaultListURLs matches the HTTP UI's routing scheme.
func DefaultListURLs() ListURLs {
	return ListURLs{
		New:    "/users/new",
		Edit:   func(id string) string { return "/users/" + id + "/edit" },
		Delete: func(id string) string { return "/users/" + id + "/delete" },
	}
}
