package constant

// User-facing messages. The frontend renders these verbatim.
const (
	MsgInvalidInput        = "اطلاعات ارسالی نامعتبر است"
	MsgRequiredFields      = "فیلدهای الزامی را پر کنید"
	MsgInternalError       = "خطای داخلی سرور"
	MsgCredentialsRequired = "نام کاربری و رمز عبور الزامی است"
	MsgInvalidCredentials  = "نام کاربری یا رمز عبور اشتباه است"
	MsgLoginFailed         = "خطا در ورود به سیستم"
	MsgUnauthorized        = "دسترسی غیرمجاز. لطفاً وارد شوید."
	MsgInvalidAccessToken  = "توکن نامعتبر یا منقضی شده است."
	MsgRefreshMissing      = "Refresh token یافت نشد"
	MsgRefreshInvalid      = "Refresh token نامعتبر است"
	MsgRefreshExpired      = "Refresh token منقضی شده است"
	MsgRefreshFailed       = "خطا در تازه‌سازی توکن"
	MsgLogoutSuccess       = "با موفقیت خارج شدید"
	MsgLogoutFailed        = "خطا در خروج از سیستم"
	MsgUsernameTaken       = "این نام کاربری قبلاً ثبت شده است"

	MsgCreditorNotFound = "طلبکار یافت نشد"
	MsgCreditorDeleted  = "طلبکار با موفقیت حذف شد"
	MsgCreditorsFailed  = "خطا در دریافت لیست طلبکاران"
	MsgCreditorFailed   = "خطا در پردازش اطلاعات طلبکار"

	MsgCustomerNotFound      = "مشتری یافت نشد"
	MsgCustomerDeleted       = "مشتری با موفقیت حذف شد"
	MsgCustomerAlreadyExists = "این مشتری قبلاً ثبت شده است"
	MsgCustomersFailed       = "خطا در دریافت لیست مشتریان"
	MsgCustomerFailed        = "خطا در پردازش اطلاعات مشتری"

	MsgReceiptNotFound  = "فیش یافت نشد"
	MsgReceiptDeleted   = "فیش با موفقیت حذف شد"
	MsgReceiptDuplicate = "این فیش قبلاً ثبت شده است"
	MsgReceiptsFailed   = "خطا در دریافت لیست فیش‌ها"
	MsgReceiptFailed    = "خطا در پردازش اطلاعات فیش"

	MsgImageMissing          = "تصویر ارسال نشده است."
	MsgImageInvalid          = "تصویر ارسالی قابل خواندن نیست."
	MsgNotAReceipt           = "تصویر ارسالی به عنوان فیش معتبر شناسایی نشد."
	MsgExtractionUnavailable = "سرویس هوش مصنوعی موقتاً در دسترس نیست. لطفاً دوباره تلاش کنید."
	MsgExtractionAuth        = "کلید سرویس هوش مصنوعی نامعتبر است."
	MsgExtractionMalformed   = "پاسخ سرویس هوش مصنوعی قابل پردازش نیست."
	MsgExtractionFailed      = "خطا در پردازش تصویر."
	MsgCreditorImageFailed   = "خطا در بازخوانی تصویر حساب."
)
