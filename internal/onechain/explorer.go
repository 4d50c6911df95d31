package onechain

import (
	"fmt"
	"net/url"
	"strings"
)

// ExplorerKind selects the explorer page for an id.
type ExplorerKind string

const (
	ExplorerTransaction ExplorerKind = "tx"
	ExplorerObject      ExplorerKind = "object"
	ExplorerAccount     ExplorerKind = "account"
)

// ExplorerURL links to the block explorer page of a digest, object or address.
func ExplorerURL(base string, kind ExplorerKind, id string) string {
	base = strings.TrimRight(base, "/")
	switch kind {
	case ExplorerTransaction:
		return fmt.Sprintf("%s/transactionBlocksDetail?digest=%s", base, url.QueryEscape(id))
	case ExplorerObject:
		return fmt.Sprintf("%s/object/%s", base, url.PathEscape(id))
	default:
		return fmt.Sprintf("%s/account?address=%s", base, url.QueryEscape(id))
	}
}
