package regfile

import (
	"fmt"
	"strings"

	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/Manu343726/isasim/pkg/utils"
)

// Contents of a register in hex with all its digits, X if unknown
func registerText(rf *regfile.RegisterFile, r regfile.Register) (string, error) {
	v, err := rf.ReadRegister(r)
	if err != nil {
		return "", err
	}

	if v.IsUnknown() {
		return "X", nil
	}

	return utils.FormatBigHex(v.Index(), v.Width()), nil
}

// Canonical registers of a class, the zero register included
func classRegisters(rc regfile.RegisterClass) ([]regfile.Register, error) {
	descriptor := regfile.Descriptor(rc)
	registers := make([]regfile.Register, 0, descriptor.TotalRegisters)

	for index := range descriptor.TotalRegisters {
		r, err := regfile.ParseRegister(descriptor.RegisterName(index))
		if err != nil {
			return nil, err
		}

		registers = append(registers, r)
	}

	return registers, nil
}

// Lays out the registers of a class in as many columns as fit in width characters
func formatRegisters(rf *regfile.RegisterFile, rc regfile.RegisterClass, width int) (string, error) {
	registers, err := classRegisters(rc)
	if err != nil {
		return "", err
	}

	nameWidth := utils.Max(utils.Map(registers, func(r regfile.Register) int { return len(r.Name) }))
	cells := make([]string, 0, len(registers))

	for _, r := range registers {
		text, err := registerText(rf, r)
		if err != nil {
			return "", err
		}

		cells = append(cells, fmt.Sprintf("%-*v = %v", nameWidth, r.Name, text))
	}

	cellWidth := utils.Max(utils.Map(cells, func(cell string) int { return len(cell) }))
	columns := max(1, (width+2)/(cellWidth+2))

	var builder strings.Builder
	for row := 0; row < len(cells); row += columns {
		line := utils.Map(cells[row:min(row+columns, len(cells))], func(cell string) string { return fmt.Sprintf("%-*v", cellWidth, cell) })
		builder.WriteString(strings.TrimRight(strings.Join(line, "  "), " "))
		builder.WriteByte('\n')
	}

	return builder.String(), nil
}
