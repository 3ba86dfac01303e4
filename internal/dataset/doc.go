// Package dataset turns the fundraising workbook into a normalized,
// year-ordered table and keeps the current table in memory.
//
// Loading is tolerant of loosely structured sheets. Blank columns and
// columns holding nothing but a currency symbol are dropped, then the four
// table columns are located by exact header name, by keyword, or by
// position. Cells are coerced to numbers after stripping "$" and ",";
// anything else becomes a missing value, and rows without a usable year are
// dropped.
//
// Store caches the table, reloads it when the file changes and notifies
// subscribers so open dashboards can redraw.
package dataset
