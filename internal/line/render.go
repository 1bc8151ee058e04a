// Package line adapts the conversation engine to the LINE Messaging API:
// it parses webhook deliveries, dispatches events to the engine, and
// renders reply intents into LINE message payloads.
package line

import (
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/weihant/linetodo/internal/command"
	"github.com/weihant/linetodo/internal/conversation"
	"github.com/weihant/linetodo/internal/daterange"
	"github.com/weihant/linetodo/internal/todo"
)

// Button and text colors used across bubbles.
const (
	colorTitle    = "#333333"
	colorSubtext  = "#999999"
	colorComplete = "#28a745"
	colorDelete   = "#dc3545"
	colorWeekBtn  = "#007bff"
	colorRangeBtn = "#6c757d"
)

const displayDateLayout = "2006/01/02"

// Render turns reply intents into LINE messages, preserving order.
func Render(replies []conversation.Reply) []messaging_api.MessageInterface {
	messages := make([]messaging_api.MessageInterface, 0, len(replies))

	for _, reply := range replies {
		switch r := reply.(type) {
		case conversation.TextReply:
			messages = append(messages, messaging_api.TextMessage{Text: r.Text})
		case conversation.TodoListReply:
			messages = append(messages, renderTodoList(r))
		case conversation.MenuReply:
			messages = append(messages, renderMenu())
		}
	}

	return messages
}

// renderTodoList builds a flex carousel with one bubble per todo. Only
// pending bubbles carry the complete/delete buttons; completed items get no
// controls.
func renderTodoList(list conversation.TodoListReply) messaging_api.MessageInterface {
	bubbles := make([]messaging_api.FlexBubble, 0, len(list.Items))
	for _, item := range list.Items {
		bubbles = append(bubbles, renderBubble(item, list.Kind == conversation.ListPending))
	}

	return messaging_api.FlexMessage{
		AltText: list.AltText,
		Contents: messaging_api.FlexCarousel{
			Contents: bubbles,
		},
	}
}

func renderBubble(item todo.Todo, withActions bool) messaging_api.FlexBubble {
	date := item.CreatedAt.In(daterange.Location).Format(displayDateLayout)

	bubble := messaging_api.FlexBubble{
		Body: &messaging_api.FlexBox{
			Layout:  messaging_api.FlexBoxLAYOUT_VERTICAL,
			Spacing: "sm",
			Contents: []messaging_api.FlexComponentInterface{
				messaging_api.FlexText{
					Text:   item.Title,
					Weight: messaging_api.FlexTextWEIGHT_BOLD,
					Size:   "lg",
					Color:  colorTitle,
				},
				messaging_api.FlexText{
					Text:  fmt.Sprintf("日期：%s", date),
					Size:  "sm",
					Color: colorSubtext,
				},
				messaging_api.FlexText{
					Text:  fmt.Sprintf("狀態：%s", item.Status),
					Size:  "sm",
					Color: colorSubtext,
				},
			},
		},
	}

	if !withActions {
		return bubble
	}

	bubble.Footer = &messaging_api.FlexBox{
		Layout:  messaging_api.FlexBoxLAYOUT_VERTICAL,
		Spacing: "sm",
		Contents: []messaging_api.FlexComponentInterface{
			messaging_api.FlexButton{
				Style: messaging_api.FlexButtonSTYLE_PRIMARY,
				Color: colorComplete,
				Action: messaging_api.MessageAction{
					Label: "完成",
					Text:  fmt.Sprintf("%s %s", command.CompleteMarker, item.ID),
				},
			},
			messaging_api.FlexButton{
				Style: messaging_api.FlexButtonSTYLE_PRIMARY,
				Color: colorDelete,
				Action: messaging_api.MessageAction{
					Label: "刪除",
					Text:  fmt.Sprintf("%s %s", command.DeleteMarker, item.ID),
				},
			},
		},
	}
	bubble.Styles = &messaging_api.FlexBubbleStyles{
		Footer: &messaging_api.FlexBlockStyle{
			Separator: true,
		},
	}

	return bubble
}

// renderMenu builds the query option bubble shown for the 查看 command.
func renderMenu() messaging_api.MessageInterface {
	menuButton := func(color, label, text string) messaging_api.FlexComponentInterface {
		return messaging_api.FlexButton{
			Style: messaging_api.FlexButtonSTYLE_PRIMARY,
			Color: color,
			Action: messaging_api.MessageAction{
				Label: label,
				Text:  text,
			},
		}
	}

	return messaging_api.FlexMessage{
		AltText: "查看待辦事項",
		Contents: messaging_api.FlexBubble{
			Body: &messaging_api.FlexBox{
				Layout:  messaging_api.FlexBoxLAYOUT_VERTICAL,
				Spacing: "md",
				Contents: []messaging_api.FlexComponentInterface{
					messaging_api.FlexText{
						Text:   "待辦事項查詢",
						Weight: messaging_api.FlexTextWEIGHT_BOLD,
						Size:   "xl",
						Align:  messaging_api.FlexTextALIGN_CENTER,
						Color:  colorTitle,
					},
					messaging_api.FlexText{
						Text:  "選擇要查看的待辦事項狀態或輸入日期範圍",
						Size:  "sm",
						Color: colorSubtext,
						Wrap:  true,
						Align: messaging_api.FlexTextALIGN_CENTER,
					},
					messaging_api.FlexSeparator{Margin: "md"},
					menuButton(colorDelete, "📋 未完成事項", "未完成"),
					menuButton(colorComplete, "✅ 已完成事項", "已完成"),
					menuButton(colorWeekBtn, "📅 本日待辦事項", "本日"),
					menuButton(colorWeekBtn, "📅 本週待辦事項", "本週"),
					menuButton(colorWeekBtn, "📅 本月待辦事項", "本月"),
					menuButton(colorRangeBtn, "📅 輸入日期範圍", "輸入日期"),
				},
			},
		},
	}
}
