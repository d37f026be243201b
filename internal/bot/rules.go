package bot

import (
	"fmt"
	"strings"

	"github.com/conectifisio/whatsapp-gateway/internal/extract"
	"github.com/conectifisio/whatsapp-gateway/internal/session"
)

// Reply texts. The menu is the contract with returning patients, so the
// option numbers are stable.
const (
	menuReply = "Olá! Sou o assistente virtual da ConectiFisio. 😊\n" +
		"Digite o número da opção desejada:\n" +
		"1 - Agendar avaliação\n" +
		"2 - Valores das sessões\n" +
		"3 - Endereço da clínica\n" +
		"9 - Falar com um atendente"

	handoffRequestReply = "Certo! Para agilizar o atendimento, me diga seu nome e o que você precisa. " +
		"Um atendente da equipe falará com você em breve."

	handoffAckReply = "Obrigado! Já vou repassar sua mensagem para a equipe. " +
		"Aguarde só um instante que um atendente te responde por aqui."

	bookingReply = "Ótimo! Para agendar sua avaliação, me envie seu CPF (pode ser com pontos e traço) " +
		"que eu já inicio o seu cadastro."

	pricingReply = "Nossos valores: sessão avulsa R$ 120,00 | pacote com 8 sessões R$ 760,00. " +
		"Aceitamos os principais convênios. Digite 0 para voltar ao menu."

	addressReply = "Estamos na Rua Silva Bueno, 1400 - Ipiranga e na Av. Paulista, 807 - Bela Vista. " +
		"Deseja receber o link do mapa? Responda \"sim\"."

	mapLinkReply = "Aqui está! 📍 https://maps.google.com/?q=ConectiFisio\n" +
		"Qualquer dúvida, digite 0 para ver o menu."

	fallbackReply = "Desculpe, não entendi. 🙈 Digite 0 para ver o menu de opções."

	textOnlyReply = "No momento eu só consigo entender mensagens de texto. Digite 0 para ver o menu."
)

// cpfRegisteredReply acknowledges a captured CPF and names the kanban
// stage the lead moved to.
func cpfRegisteredReply(cpf, unit string) string {
	return fmt.Sprintf(
		"Recebido! Identificamos o CPF %s. O seu card no Kanban da unidade %s foi atualizado para a etapa de Cadastro!",
		extract.FormatCPF(cpf), unit,
	)
}

// scope restricts a rule to a router state.
type scope int

const (
	scopeAny scope = iota
	scopeIdle
	scopeAwaitingHandoff
)

// rule is one row of the transition table. Rules are evaluated in order
// against the case-normalized, trimmed input; the first match wins.
type rule struct {
	scope scope
	// inputs match the whole normalized text exactly.
	inputs []string
	// contains match anywhere in the normalized text.
	contains []string
	// catchAll matches any input within the scope.
	catchAll bool
	// needsMapOffer restricts the rule to the turn right after the
	// address option was shown.
	needsMapOffer bool

	reply string
	// next is the mode to transition to; empty keeps the current mode.
	next session.Mode
	// offersMap arms the map follow-up for the next turn.
	offersMap bool
}

// transitions is the router's state machine. New commands are new rows.
var transitions = []rule{
	{scope: scopeAny, inputs: []string{"0", "menu"}, reply: menuReply, next: session.ModeIdle},
	{scope: scopeAny, inputs: []string{"9"}, contains: []string{"atendente", "humano"}, reply: handoffRequestReply, next: session.ModeAwaitingHandoff},
	{scope: scopeAwaitingHandoff, catchAll: true, reply: handoffAckReply, next: session.ModeAwaitingHandoff},
	{scope: scopeIdle, inputs: []string{"1"}, reply: bookingReply, next: session.ModeIdle},
	{scope: scopeIdle, inputs: []string{"2"}, reply: pricingReply, next: session.ModeIdle},
	{scope: scopeIdle, inputs: []string{"3"}, reply: addressReply, next: session.ModeIdle, offersMap: true},
	{scope: scopeIdle, inputs: []string{"sim"}, needsMapOffer: true, reply: mapLinkReply, next: session.ModeIdle},
	{scope: scopeIdle, catchAll: true, reply: fallbackReply, next: session.ModeIdle},
}

// route resolves one turn: it returns the reply and the updated session.
func route(s session.Session, text string) (string, session.Session) {
	s = s.Normalize()
	input := strings.ToLower(strings.TrimSpace(text))

	for _, r := range transitions {
		if !r.matches(s, input) {
			continue
		}
		next := s
		if r.next != "" {
			next.Mode = r.next
		}
		next.AwaitingMapReply = r.offersMap
		return r.reply, next
	}

	// The table ends in catch-alls, so this is unreachable; keep the
	// fallback anyway so a table edit cannot leave a turn unanswered.
	s.AwaitingMapReply = false
	return fallbackReply, s
}

func (r rule) matches(s session.Session, input string) bool {
	switch r.scope {
	case scopeIdle:
		if s.Mode != session.ModeIdle {
			return false
		}
	case scopeAwaitingHandoff:
		if s.Mode != session.ModeAwaitingHandoff {
			return false
		}
	}
	if r.needsMapOffer && !s.AwaitingMapReply {
		return false
	}
	if r.catchAll {
		return true
	}
	for _, exact := range r.inputs {
		if input == exact {
			return true
		}
	}
	for _, sub := range r.contains {
		if sub != "" && strings.Contains(input, sub) {
			return true
		}
	}
	return false
}
