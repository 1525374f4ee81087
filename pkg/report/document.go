package report

import (
	"strings"
	"time"
)

type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockParagraph
	BlockHeading
	BlockBullet
	BlockSpacer
	BlockTable
)

// Block is one layout element. Which fields are used depends on Kind: Text for titles,
// paragraphs, headings and bullets, Level for headings (2-4), Height in millimetres for
// spacers, Table for tables.
type Block struct {
	Kind   BlockKind
	Text   string
	Level  int
	Height float64
	Table  *Table
}

type Table struct {
	Header []string
	Rows   [][]string
}

// Document is the ordered layout of a report, ready to be rendered.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Blocks      []Block
}

func (d *Document) title(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockTitle, Text: text})
}

func (d *Document) paragraph(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockParagraph, Text: text})
}

func (d *Document) heading(level int, text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockHeading, Level: level, Text: text})
}

func (d *Document) bullet(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockBullet, Text: text})
}

func (d *Document) spacer(height float64) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockSpacer, Height: height})
}

func (d *Document) table(t *Table) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockTable, Table: t})
}

// Lines returns the text of every non-spacer block in order, table rows joined by " | ".
func (d *Document) Lines() []string {
	var lines []string
	for _, b := range d.Blocks {
		switch b.Kind {
		case BlockSpacer:
		case BlockTable:
			lines = append(lines, strings.Join(b.Table.Header, " | "))
			for _, row := range b.Table.Rows {
				lines = append(lines, strings.Join(row, " | "))
			}
		default:
			lines = append(lines, b.Text)
		}
	}
	return lines
}

// Tables returns the table blocks of the document.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Blocks {
		if b.Kind == BlockTable {
			tables = append(tables, b.Table)
		}
	}
	return tables
}
