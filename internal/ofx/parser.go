// Package ofx parses OFX/QFX bank statement exports into bank
// transactions for reconciliation.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/fmeinberg/kontor/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns bank transactions with the
// signed amount convention the reconciliation matcher expects: positive
// amounts are incoming money.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]model.BankTransaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.BankTransaction
	var statements int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		statements++
		txns, stmtErr := p.processStatement(stmt)
		if stmtErr != nil {
			slog.Warn("Failed to process bank statement",
				"account", stmt.BankAcctFrom.AcctID,
				"error", stmtErr)
			continue
		}
		transactions = append(transactions, txns...)
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"statements", statements)

	return transactions, nil
}

// processStatement converts one OFX bank statement to our model.
func (p *Parser) processStatement(stmt *ofxgo.StatementResponse) ([]model.BankTransaction, error) {
	if stmt.BankTranList == nil {
		return nil, nil
	}

	accountIBAN := string(stmt.BankAcctFrom.AcctID)

	var transactions []model.BankTransaction
	for _, ofxTx := range stmt.BankTranList.Transactions {
		transactions = append(transactions, p.convertTransaction(ofxTx, accountIBAN))
	}

	return transactions, nil
}

// convertTransaction converts an OFX transaction to our model. The sign
// is kept as-is: OFX already uses negative amounts for outgoing money.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountIBAN string) model.BankTransaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	txn := model.BankTransaction{
		ID:              fmt.Sprintf("%s:%s", accountIBAN, ofxTx.FiTID),
		Date:            ofxTx.DtPosted.Time,
		Amount:          amount,
		CounterpartName: p.extractCounterpart(ofxTx),
		Purpose:         strings.TrimSpace(string(ofxTx.Memo)),
		Status:          model.StatusUnmatched,
	}

	// German exports put the counterpart IBAN in the bank account
	// reference when present.
	if ofxTx.BankAcctTo != nil {
		txn.CounterpartIBAN = string(ofxTx.BankAcctTo.AcctID)
	}

	txn.Hash = txn.GenerateHash()

	return txn
}

// extractCounterpart tries to get a clean counterpart name from OFX data.
func (p *Parser) extractCounterpart(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))

	// SEPA exports often prefix the name with the transfer type.
	prefixes := []string{
		"SEPA-UEBERWEISUNG ",
		"SEPA-LASTSCHRIFT ",
		"SEPA-GUTSCHRIFT ",
		"DAUERAUFTRAG ",
		"KARTENZAHLUNG ",
		"LASTSCHRIFT ",
		"GUTSCHRIFT ",
	}
	upper := strings.ToUpper(name)
	for _, prefix := range prefixes {
		if strings.HasPrefix(upper, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	return name
}
