package settings

import "time"

// InvoiceSettings is the single company/invoice configuration document.
type InvoiceSettings struct {
	CompanyName    string    `json:"company_name"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Website        string    `json:"website"`
	BankInfo       string    `json:"bank_info"`
	QRText         string    `json:"qr_text"`
	DefaultTaxRate float64   `json:"default_tax_rate"`
	FooterText     string    `json:"footer_text"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Defaults returns the configuration used until the first save.
func Defaults() InvoiceSettings {
	return InvoiceSettings{
		CompanyName: "Kyrgyz Organics",
		Address:     "Republic of Kyrgyzstan",
		Phone:       "+996 700 123 456",
		Website:     "kyrgyz-organics.com",
		BankInfo: "Bank of Kyrgyzstan,\nKyrgyzz Organics Ltd, KG12346712345789901\n" +
			"Account To: KG12346712345789901\nSWIFT: KGZBBBBB",
		QRText:         "https://kyrgyz-organics.com/pay",
		DefaultTaxRate: 10,
		FooterText:     "Thanks for supporting sustainable agriculture!",
	}
}
