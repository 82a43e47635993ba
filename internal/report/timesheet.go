// Package report выгружает банк часов в XLSX.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"ponto-bot/internal/ledger"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Resumo"

// Person банк часов одного сотрудника для выгрузки
type Person struct {
	Name   string
	Role   string
	Target time.Duration
	Ledger ledger.Ledger
	// Location зона, в которой печатается время отметок
	Location *time.Location
}

var header = []interface{}{"Data", "Pontos", "Trabalhado", "Meta", "Saldo", "Encerrado"}

// WriteTimesheet пишет книгу: лист "Resumo" и по листу на сотрудника
func WriteTimesheet(w io.Writer, people []Person) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Funcionário", "Cargo", "Meta diária", "Dias encerrados", "Saldo acumulado"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "E1", bold); err != nil {
		return err
	}

	used := map[string]int{strings.ToLower(summarySheet): 1}
	for i, p := range people {
		finalized := 0
		for _, day := range p.Ledger.Days {
			if day.Finalized {
				finalized++
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.Name, p.Role, ledger.FormatClock(p.Target), finalized, ledger.FormatDuration(p.Ledger.TotalBalance)}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}

		if err := writePersonSheet(f, uniqueSheetName(p.Name, used), p, bold); err != nil {
			return fmt.Errorf("sheet for %s: %w", p.Name, err)
		}
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writePersonSheet(f *excelize.File, sheet string, p Person, bold int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", bold); err != nil {
		return err
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	rowNum := 2
	for _, key := range p.Ledger.Keys() {
		day := p.Ledger.Days[key]

		finalized := "não"
		if day.Finalized {
			finalized = "sim"
		}

		row := []interface{}{
			key,
			formatEvents(day.Events, loc),
			ledger.FormatClock(day.TotalWorked),
			ledger.FormatClock(p.Target),
			ledger.FormatDuration(day.Balance),
			finalized,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		rowNum++
	}

	// Итог только по закрытым дням
	totalCell, err := excelize.CoordinatesToCellName(1, rowNum+1)
	if err != nil {
		return err
	}
	total := []interface{}{"Saldo acumulado", "", "", "", ledger.FormatDuration(p.Ledger.TotalBalance)}
	if err := f.SetSheetRow(sheet, totalCell, &total); err != nil {
		return err
	}
	endCell, err := excelize.CoordinatesToCellName(5, rowNum+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, totalCell, endCell, bold); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "B", "B", 48)
}

func formatEvents(events []ledger.Event, loc *time.Location) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, e.Timestamp.In(loc).Format("15:04")+" "+string(e.Type))
	}
	return strings.Join(parts, ", ")
}

// uniqueSheetName имя листа по правилам Excel: до 31 символа, без []:*?/\ и без повторов
func uniqueSheetName(name string, used map[string]int) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "Funcionario"
	}
	clean = truncateRunes(clean, 31)

	key := strings.ToLower(clean)
	n := used[key]
	used[key] = n + 1
	if n == 0 {
		return clean
	}

	// суффикс может совпасть с уже занятым именем вроде "Ana (2)"
	for i := n + 1; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate := truncateRunes(clean, 31-len(suffix)) + suffix
		if used[strings.ToLower(candidate)] == 0 {
			used[strings.ToLower(candidate)] = 1
			return candidate
		}
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
