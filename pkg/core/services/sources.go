package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// TableSource supplies the two input tables of a scheduling run
type TableSource interface {
	ReadShifts(ctx context.Context) (*roster.Table, error)
	ReadAvailability(ctx context.Context) (*roster.Table, error)
}

// TableReader reads a table from a file path or URL
type TableReader interface {
	Read(ctx context.Context, location string) (*roster.Table, error)
}

// SheetsTableReader reads a table from a spreadsheet tab
type SheetsTableReader interface {
	ReadTable(spreadsheetID, tab string) (*roster.Table, error)
}

// FileTableSource reads both tables through a TableReader
type FileTableSource struct {
	Reader       TableReader
	Shifts       string
	Availability string
}

func (s *FileTableSource) ReadShifts(ctx context.Context) (*roster.Table, error) {
	return s.Reader.Read(ctx, s.Shifts)
}

func (s *FileTableSource) ReadAvailability(ctx context.Context) (*roster.Table, error) {
	return s.Reader.Read(ctx, s.Availability)
}

// SheetsTableSource reads both tables from tabs of one spreadsheet
type SheetsTableSource struct {
	Reader          SheetsTableReader
	SpreadsheetID   string
	ShiftsTab       string
	AvailabilityTab string
}

func (s *SheetsTableSource) ReadShifts(ctx context.Context) (*roster.Table, error) {
	return s.read(ctx, s.ShiftsTab)
}

func (s *SheetsTableSource) ReadAvailability(ctx context.Context) (*roster.Table, error) {
	return s.read(ctx, s.AvailabilityTab)
}

func (s *SheetsTableSource) read(ctx context.Context, tab string) (*roster.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := s.Reader.ReadTable(s.SpreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("tab %s: %w", tab, err)
	}
	return table, nil
}

// StaticTableSource serves tables that are already in memory
type StaticTableSource struct {
	Shifts       *roster.Table
	Availability *roster.Table
}

func (s *StaticTableSource) ReadShifts(context.Context) (*roster.Table, error) {
	if s.Shifts == nil {
		return nil, fmt.Errorf("no shifts table provided")
	}
	return s.Shifts, nil
}

func (s *StaticTableSource) ReadAvailability(context.Context) (*roster.Table, error) {
	if s.Availability == nil {
		return nil, fmt.Errorf("no availability table provided")
	}
	return s.Availability, nil
}
