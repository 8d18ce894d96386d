// Package credsfile формирует файл с учётными данными нового аккаунта,
// выдаваемый администратору при одобрении заявки.
//
// Файл создаётся ровно один раз: открытый пароль существует только
// в момент одобрения и после записи файла не восстановим.
package credsfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/erzhanov/factory-monitor/internal/models"
)

// Writer записывает файлы учётных данных в каталог dir.
type Writer struct {
	dir string
}

// NewWriter создаёт Writer, при необходимости создавая каталог.
func NewWriter(dir string) (*Writer, error) {
	const op = "credsfile.NewWriter"
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Writer{dir: dir}, nil
}

// Write формирует XLSX-файл с учётными данными и возвращает путь к нему.
func (w *Writer) Write(creds models.Credentials) (string, error) {
	const op = "credsfile.Write"

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	rows := [][2]string{
		{"Логин", creds.Username},
		{"Пароль", creds.Password},
		{"Email", creds.Email},
	}
	for i, row := range rows {
		keyCell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		valCell, err := excelize.CoordinatesToCellName(2, i+1)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetCellValue(sheet, keyCell, row[0]); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if err := f.SetCellValue(sheet, valCell, row[1]); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	path := filepath.Join(w.dir, fmt.Sprintf("credentials_%s.xlsx", creds.Username))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return path, nil
}
