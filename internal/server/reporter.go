package server

import (
	"log"
	"sync/atomic"

	"httplsp/internal/commands"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// clientReporter shows reports with window/showMessage once a client
// connection is known and logs them until then.
type clientReporter struct {
	notify atomic.Pointer[glsp.NotifyFunc]
}

func (r *clientReporter) attach(context *glsp.Context) {
	if context == nil || context.Notify == nil {
		return
	}
	notify := context.Notify
	r.notify.Store(&notify)
}

func (r *clientReporter) Report(sev commands.Severity, text string) {
	notify := r.notify.Load()
	if notify == nil {
		commands.LogReporter{}.Report(sev, text)
		return
	}
	log.Printf("showMessage (%s): %d bytes", sev, len(text))
	(*notify)(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    messageType(sev),
		Message: text,
	})
}

func messageType(sev commands.Severity) protocol.MessageType {
	switch sev {
	case commands.SeverityError:
		return protocol.MessageTypeError
	case commands.SeverityWarning:
		return protocol.MessageTypeWarning
	}
	return protocol.MessageTypeInfo
}
