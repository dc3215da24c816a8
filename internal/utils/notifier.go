package utils

import (
	"log"
	"sync"
)

// OfferMail - message en attente d'envoi
type OfferMail struct {
	To      string
	Subject string
	HTML    string
}

// MailQueue - file d'envoi sortante.
// L'enfilage ne bloque jamais le handler : si la file est pleine le message
// est abandonné avec une trace. Un seul worker consomme, loggue chaque échec,
// sans retry.
type MailQueue struct {
	ch   chan OfferMail
	send func(to, subject, htmlBody string) error

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewMailQueue(size int) *MailQueue {
	return &MailQueue{
		ch:   make(chan OfferMail, size),
		send: SendOfferEmail,
	}
}

// Start démarre le worker d'envoi
func (q *MailQueue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for msg := range q.ch {
			if err := q.send(msg.To, msg.Subject, msg.HTML); err != nil {
				log.Printf("❌ Échec envoi email à %s: %v", msg.To, err)
				continue
			}
			log.Printf("📧 Notification envoyée à %s", msg.To)
		}
	}()
}

// Enqueue dépose un message dans la file sans bloquer
func (q *MailQueue) Enqueue(msg OfferMail) {
	select {
	case q.ch <- msg:
	default:
		log.Printf("⚠️ File d'envoi pleine, notification abandonnée pour %s", msg.To)
	}
}

// Stop ferme la file et attend la fin des envois en cours
func (q *MailQueue) Stop() {
	q.stopOnce.Do(func() {
		close(q.ch)
	})
	q.wg.Wait()
}
