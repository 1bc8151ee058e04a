package conversation

// Command vocabulary recognized while idle.
const (
	cmdAdd           = "新增"
	cmdView          = "查看"
	cmdCompletedList = "已完成"
	cmdPendingList   = "未完成"
	cmdInputDate     = "輸入日期"
	cmdToday         = "本日"
	cmdThisWeek      = "本週"
	cmdThisMonth     = "本月"
)

// User-facing reply copy. Format strings take the title, ID or month noted
// in their names.
const (
	msgPromptTitle     = "請輸入待辦事項的標題："
	msgPromptDueDate   = "請輸入待辦事項「%s」的到期日期，範例：2024-11-01"
	msgDateFormatError = "日期格式錯誤，請重新操作。格式範例：2024-11-01"
	msgCreated         = "待辦事項「%s」已新增成功！"
	msgCreateFailed    = "新增待辦事項失敗，請稍後再試。"

	msgPromptRange      = "請輸入日期（例如：2024-01-01,2024-01-31）："
	msgRangeFormatError = "日期格式錯誤，請重新操作。格式範例：2024-11-01,2024-11-30"
	msgRangeTooLarge    = "日期區間不可超過一個月，請重新操作。"
	msgRangeNotFound    = "找不到 周期間 的待辦事項。"

	msgNoCompleted   = "目前沒有已完成事項。"
	msgNoPending     = "目前沒有未完成事項。"
	msgNoToday       = "目前沒有本日待辦事項。"
	msgNoThisWeek    = "目前沒有本週待辦事項。"
	msgMonthNotFound = "找不到 %d 的待辦事項。"

	msgUnrecognized = "無法識別的指令。請使用「新增」「查看」「完成」等指令。"

	msgMarkedComplete = "待辦事項「%s」已標記完成！"
	msgDeleted        = "待辦事項「%s」已刪除！"
	msgTodoNotFound   = "找不到 ID 為 %s 的待辦事項。"
	msgActionFailed   = "操作失敗，請稍後再試。"
)

// Alt texts for rendered todo lists.
const (
	altPendingList        = "待辦事項列表"
	altCompletedList      = "已完成事項列表"
	altPendingOnlyList    = "未完成事項列表"
	altTodayPendingList   = "本日待辦事項列表"
	altTodayCompletedList = "本日已完成事項列表"
	altWeekPendingList    = "本週待辦事項列表"
	altWeekCompletedList  = "本週已完成事項列表"
	altMonthPendingList   = "本月待辦事項列表"
	altMonthCompletedList = "本月已完成事項列表"
)
