// file: internals/bot/telegram.go
package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier mengirim pesan Telegram secara fire-and-forget: pesan di-enqueue
// setelah transaksi utama commit, dikirim oleh satu worker goroutine.
// Kegagalan hanya dicatat di log, tidak pernah menggagalkan request user.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	queue  chan string
	done   chan struct{}
}

// NewNotifier membuat notifier. Token kosong → notifier nil (aman dipanggil,
// Notify jadi no-op).
func NewNotifier(token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		log.Println("⚠️ Telegram notifier nonaktif (token/chat id kosong)")
		return nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("❌ Telegram bot init gagal: %v", err)
		return nil
	}
	log.Printf("📱 Telegram bot aktif sebagai @%s", api.Self.UserName)

	return &Notifier{
		api:    api,
		chatID: chatID,
		queue:  make(chan string, 64),
		done:   make(chan struct{}),
	}
}

// Start menjalankan worker pengirim. Panggil sekali setelah construct.
func (n *Notifier) Start() {
	if n == nil {
		return
	}
	go func() {
		defer close(n.done)
		for text := range n.queue {
			msg := tgbotapi.NewMessage(n.chatID, text)
			msg.ParseMode = tgbotapi.ModeMarkdown
			if _, err := n.api.Send(msg); err != nil {
				log.Printf("❌ Telegram notification gagal: %v", err)
			}
		}
	}()
}

// Notify meng-enqueue pesan. Queue penuh → pesan di-drop (dicatat), bukan block.
func (n *Notifier) Notify(text string) {
	if n == nil {
		return
	}
	select {
	case n.queue <- text:
	default:
		log.Println("⚠️ Telegram queue penuh, notifikasi di-drop")
	}
}

// Stop menutup queue dan menunggu worker selesai mengirim sisa pesan.
func (n *Notifier) Stop() {
	if n == nil {
		return
	}
	close(n.queue)
	<-n.done
}
