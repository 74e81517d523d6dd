package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	en := language.AmericanEnglish
	message.SetString(en, "notice.error.generic", "Something went wrong. Please try again.")
	message.SetString(en, "notice.error.unavailable", "The service is unavailable right now. Please try again in a moment.")
	message.SetString(en, "notice.workspace.selected", "Switched to workspace %s.")
	message.SetString(en, "notice.workspace.required", "Choose a workspace to continue.")
	message.SetString(en, "notice.preferences.saved", "Preferences saved.")
	message.SetString(en, "notice.session.ended", "You have been signed out.")

	pt := language.BrazilianPortuguese
	message.SetString(pt, "notice.error.generic", "Algo deu errado. Tente novamente.")
	message.SetString(pt, "notice.error.unavailable", "O serviço está indisponível no momento. Tente novamente em instantes.")
	message.SetString(pt, "notice.workspace.selected", "Espaço de trabalho alterado para %s.")
	message.SetString(pt, "notice.workspace.required", "Escolha um espaço de trabalho para continuar.")
	message.SetString(pt, "notice.preferences.saved", "Preferências salvas.")
	message.SetString(pt, "notice.session.ended", "Você saiu da sua conta.")
}
