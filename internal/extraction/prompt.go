package extraction

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	creditorPrompt = "مشخصات حساب بانکی موجود در تصویر را استخراج کن."
	receiptPrompt  = "فیش را تحلیل کن و گیرنده را با لیست طلبکاران تطبیق بده."
)

const creditorInstruction = `تو تحلیلگر مستندات بانکی هستی.
تصویر یک فیش یا اسکرین‌شات مشخصات حساب است.
نام صاحب حساب، شماره حساب و شماره شبا را استخراج کن.
شماره شبا را بدون پیشوند IR و فقط به صورت ۲۴ رقم برگردان.
هر فیلدی که پیدا نشد خالی بماند.
پاسخ فقط JSON باشد.`

func receiptInstruction(creditors []KnownCreditor) string {
	var list strings.Builder
	for _, c := range creditors {
		fmt.Fprintf(&list, "ID: %s, Name: %s, Account: %s, Sheba: %s\n", c.ID, c.Name, c.AccountNumber, c.ShebaNumber)
	}
	known := strings.TrimSpace(list.String())
	if known == "" {
		known = "هیچ طلبکاری ثبت نشده است."
	}

	return `تو تحلیلگر فیش‌های واریز بانکی هستی.

طلبکاران ثبت شده:
` + known + `

مراحل:
۱. مشخص کن تصویر یک فیش واریز معتبر است یا نه (isReceipt). اگر نیست دلیل را در description بنویس.
۲. مبلغ (amount)، تاریخ (date)، کد پیگیری (refNumber)، واریز کننده (sender) و دریافت کننده (receiver) را استخراج کن.
۳. نام، شماره حساب یا شبای گیرنده را با لیست بالا مقایسه کن و در صورت تطابق، ID همان طلبکار را در matchedCreditorId بگذار.
۴. سایر اطلاعات فیش را به صورت key/value در dynamicFields بیاور.
۵. ارقام فارسی را به انگلیسی تبدیل کن.

پاسخ فقط JSON باشد.`
}

var creditorSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":    {Type: genai.TypeString},
		"account": {Type: genai.TypeString},
		"sheba":   {Type: genai.TypeString, Description: "24 digit number without IR"},
	},
}

var receiptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isReceipt":         {Type: genai.TypeBoolean},
		"amount":            {Type: genai.TypeNumber},
		"date":              {Type: genai.TypeString},
		"refNumber":         {Type: genai.TypeString},
		"sender":            {Type: genai.TypeString},
		"receiver":          {Type: genai.TypeString},
		"description":       {Type: genai.TypeString},
		"matchedCreditorId": {Type: genai.TypeString, Description: "ID of the matched creditor from the list"},
		"dynamicFields": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"key":   {Type: genai.TypeString},
					"value": {Type: genai.TypeString},
				},
				Required: []string{"key", "value"},
			},
		},
	},
	Required: []string{"isReceipt"},
}
