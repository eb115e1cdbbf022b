package regfile

import (
	"fmt"

	"github.com/Manu343726/isasim/pkg/hw/cpu"
	"github.com/Manu343726/isasim/pkg/hw/regfile"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Terminal UI showing the register file",
	Long: `Shows all the registers in a table and runs register file commands typed in the
command line at the bottom, updating the table after each one.

Keys:
  Tab      switch focus between the command line and the register table
  Ctrl+Q   quit`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	RegfileCmd.AddCommand(viewCmd)
}

// Registers shown by the view: general purpose, scalable vector and predicate registers.
// SIMD registers are the low bits of the Z registers.
func viewRegisters() ([]regfile.Register, error) {
	var registers []regfile.Register

	for _, rc := range []regfile.RegisterClass{regfile.RegisterClass_GeneralPurpose, regfile.RegisterClass_ScalableVector, regfile.RegisterClass_Predicate} {
		classRegs, err := classRegisters(rc)
		if err != nil {
			return nil, err
		}

		registers = append(registers, classRegs...)
	}

	return registers, nil
}

// Fills the table with one row per register: name, width and contents
func fillRegisterTable(table *tview.Table, rf *regfile.RegisterFile) error {
	registers, err := viewRegisters()
	if err != nil {
		return err
	}

	table.SetCell(0, 0, tview.NewTableCell("REGISTER").SetTextColor(tcell.ColorYellow).SetSelectable(false))
	table.SetCell(0, 1, tview.NewTableCell("BITS").SetTextColor(tcell.ColorYellow).SetSelectable(false))
	table.SetCell(0, 2, tview.NewTableCell("VALUE").SetTextColor(tcell.ColorYellow).SetSelectable(false))

	for i, r := range registers {
		text, err := registerText(rf, r)
		if err != nil {
			return err
		}

		valueColor := tcell.ColorWhite
		if text == "X" {
			valueColor = tcell.ColorRed
		}

		table.SetCell(i+1, 0, tview.NewTableCell(r.Name).SetTextColor(tcell.ColorGreen))
		table.SetCell(i+1, 1, tview.NewTableCell(fmt.Sprint(rf.Size(r))).SetAlign(tview.AlignRight))
		table.SetCell(i+1, 2, tview.NewTableCell(text).SetTextColor(valueColor))
	}

	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	interpreter := cpu.MakeSanitizedCommandInterpreter(cpu.MakeCommandInterpreter(cpu.MakeRegisterFileInterpreter(s.rf, s.logger)))

	app := tview.NewApplication()

	table := tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	table.SetBorder(true).SetTitle(fmt.Sprintf(" register file (VL=%v) ", s.rf.VectorLength()))

	status := tview.NewTextView().SetDynamicColors(true)
	input := tview.NewInputField().SetLabel("> ").SetFieldBackgroundColor(tcell.ColorDefault)

	if err := fillRegisterTable(table, s.rf); err != nil {
		return err
	}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyTab:
			app.SetFocus(table)
		case tcell.KeyEnter:
			command := input.GetText()
			result, err := interpreter.Run(command)

			switch {
			case err != nil:
				status.SetText(fmt.Sprintf("[red]%v", tview.Escape(err.Error())))
			case result != nil:
				status.SetText(tview.Escape(*result))
			default:
				status.SetText("")
			}

			if err := fillRegisterTable(table, s.rf); err != nil {
				status.SetText(fmt.Sprintf("[red]%v", tview.Escape(err.Error())))
			}

			input.SetText("")
		}
	})

	table.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyTab || key == tcell.KeyEscape {
			app.SetFocus(input)
		}
	})

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlQ {
			app.Stop()
			return nil
		}

		return event
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, false).
		AddItem(status, 1, 0, false).
		AddItem(input, 1, 0, true)

	return app.SetRoot(layout, true).EnableMouse(true).Run()
}
