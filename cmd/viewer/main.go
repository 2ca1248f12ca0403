package main

import (
	"chat-mesh/domain"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Read-only dump of the message store, one row per record.
// BypassLockGuard allows opening while the server holds the lock.
func main() {
	dbPath := flag.String("db", "/tmp/chat-mesh", "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, chat:, user:)")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(
		fmt.Sprintf(" chat-mesh viewer: %s (read-only) ", *dbPath)))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Created", "Who", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Skip secondary indexes, they only hold pointers
			if strings.HasPrefix(rawKey, "msgid:") || strings.HasPrefix(rawKey, "chatidx:") ||
				strings.HasPrefix(rawKey, "useremail:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(describe(rawKey, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func describe(key string, value []byte) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var msg domain.Message
		if err := json.Unmarshal(value, &msg); err != nil {
			return []string{key, "MSG", "", "", fmt.Sprintf("unmarshal error: %v", err)}
		}
		return []string{key, "MSG", msg.CreatedAt.Format("15:04:05.000"),
			shorten(msg.SenderID), msg.Text}
	case strings.HasPrefix(key, "chat:"):
		var chat domain.Chat
		if err := json.Unmarshal(value, &chat); err != nil {
			return []string{key, "CHAT", "", "", fmt.Sprintf("unmarshal error: %v", err)}
		}
		return []string{key, strings.ToUpper(string(chat.Kind)), chat.CreatedAt.Format("15:04:05"),
			"", strings.Join(chat.Members, ", ")}
	case strings.HasPrefix(key, "user:"):
		var user domain.User
		if err := json.Unmarshal(value, &user); err != nil {
			return []string{key, "USER", "", "", fmt.Sprintf("unmarshal error: %v", err)}
		}
		return []string{key, "USER", user.CreatedAt.Format("2006-01-02"),
			shorten(user.ID), user.DisplayName}
	default:
		return []string{key, "RAW", "", "", fmt.Sprintf("%d bytes", len(value))}
	}
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
