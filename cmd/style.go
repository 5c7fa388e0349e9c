package main

import (
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/powledger/ledger"
)

const hashWidth = 12

func printOutcomes(outcomes []outcome) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	info := ""
	for _, o := range outcomes {
		if o.Err != nil {
			info += pterm.Sprintfln("%s %s: %s", pterm.LightRed("REJECTED"), o.Description, o.Err)
		} else {
			info += pterm.Sprintfln("%s %s", pterm.LightGreen("APPENDED"), o.Description)
		}
	}
	pbox.WithTitle(pterm.LightYellow("|TRANSFERS|")).WithTitleTopCenter().Println(info)
}

// chainTableData lays out one row per block. Identities found in names are
// shown by name.
func chainTableData(blocks []*ledger.Block, names map[string]string) pterm.TableData {
	data := pterm.TableData{{"#", "Hash", "Prev hash", "Amount", "Payer", "Payee", "Nonce", "Time"}}
	for i, b := range blocks {
		tx := b.Transaction()
		data = append(data, []string{
			strconv.Itoa(i),
			short(b.Hash()),
			short(b.PrevHash()),
			tx.Amount().String(),
			displayName(tx.Payer(), names),
			displayName(tx.Payee(), names),
			strconv.FormatInt(b.Nonce(), 10),
			b.Timestamp().Format(time.TimeOnly),
		})
	}
	return data
}

func printChain(l *ledger.Ledger, names map[string]string) error {
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(chainTableData(l.Blocks(), names)).Render(); err != nil {
		return err
	}
	tail := l.Tail()
	pterm.DefaultBox.WithTitle(pterm.LightCyan("|TAIL|")).WithTitleTopLeft().
		Printfln("Hash: %s\nPrev: %s", tail.Hash(), tail.PrevHash())
	return nil
}

func displayName(id string, names map[string]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return ledger.Fingerprint(id)
}

func short(s string) string {
	if s == "" {
		return "-"
	}
	if len(s) <= hashWidth {
		return s
	}
	return s[:hashWidth]
}
