package extract

import "strings"

// Ranked keyword tables. Order matters everywhere: for total keywords the
// lowest index wins, and the classifier keyword lists are scanned first to
// last. Keeping them as data rather than inline literals keeps the priority
// semantics testable per list.

// totalKeywords mark a line as a candidate for the receipt total.
// Lower index = higher priority.
var totalKeywords = []string{
	"grand total",
	"total",
	"subtotal",
	"jumlah",
	"bayar",
	"amount due",
	"to pay",
	"net amount",
	"total bayar",
	"total harga",
}

// excludeKeywords mark a line as a non-price numeric field (bank account,
// phone, order or invoice number, tax ID, bank name). Any line containing one
// of these is never considered by the amount extractor, regardless of what
// else it contains.
var excludeKeywords = []string{
	"no. rek",
	"no rek",
	"norek",
	"rekening",
	"account no",
	"acct",
	"a/c",
	"virtual account",
	"telepon",
	"telp",
	"phone",
	"no. hp",
	"fax",
	"order no",
	"no. order",
	"order id",
	"invoice",
	"no. inv",
	"npwp",
	"tax id",
	"bank bca",
	"bank bri",
	"bank bni",
	"bank mandiri",
	"bank cimb",
}

// itemSkipKeywords mark lines that are totals, taxes or adjustments rather
// than purchasable items.
var itemSkipKeywords = []string{
	"total",
	"subtotal",
	"jumlah",
	"tax",
	"pajak",
	"service",
	"diskon",
	"discount",
}

// Income/expense keyword lists for the transaction-type classifier,
// Indonesian first per the decision-list order.
var incomeKeywordsID = []string{"uang masuk", "terima", "diterima", "masuk", "receive"}

var expenseKeywordsID = []string{"uang keluar", "bayar", "dibayar", "keluar", "payment", "pembelian"}

// containsAny reports whether lower-cased s contains any keyword, and returns
// the list index of the highest-priority keyword found.
func containsAny(lower string, keywords []string) (int, bool) {
	for i, kw := range keywords {
		if strings.Contains(lower, kw) {
			return i, true
		}
	}
	return 0, false
}
