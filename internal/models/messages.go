package models

// Persian client-facing messages. Every response body the client renders
// uses one of these; machine-readable codes stay English.
const (
	MsgInternalError        = "خطای داخلی سرور رخ داده است"
	MsgInvalidBody          = "بدنه درخواست نامعتبر است"
	MsgInvalidID            = "شناسه نامعتبر است"
	MsgAuthRequired         = "برای دسترسی باید وارد شوید"
	MsgInvalidToken         = "توکن نامعتبر یا منقضی شده است"
	MsgInvalidCredentials   = "نام کاربری یا رمز عبور اشتباه است"
	MsgAdminOnly            = "دسترسی فقط برای مدیر مجاز است"
	MsgUserBanned           = "حساب کاربری شما مسدود شده است"
	MsgUserExists           = "کاربری با این مشخصات قبلا ثبت شده است"
	MsgUserNotFound         = "کاربر یافت نشد"
	MsgUserCreated          = "ثبت‌نام با موفقیت انجام شد"
	MsgUserUpdated          = "اطلاعات کاربر به‌روزرسانی شد"
	MsgUserDeleted          = "کاربر حذف شد"
	MsgRegisterFields       = "نام کاربری، ایمیل و رمز عبور الزامی است"
	MsgFollowSelf           = "دنبال کردن خودتان ممکن نیست"
	MsgFollowed             = "کاربر دنبال شد"
	MsgUnfollowed           = "دنبال کردن کاربر لغو شد"
	MsgPostNotFound         = "پست یافت نشد"
	MsgPostCreated          = "پست با موفقیت ایجاد شد"
	MsgPostUpdated          = "پست به‌روزرسانی شد"
	MsgPostDeleted          = "پست حذف شد"
	MsgPostPublished        = "پست منتشر شد"
	MsgPostAlreadyPublished = "این پست قبلا منتشر شده است"
	MsgPostOwnerOnly        = "فقط نویسنده پست اجازه این کار را دارد"
	MsgPostTitleRequired    = "عنوان و متن پست الزامی است"
	MsgCommentNotFound      = "دیدگاه یافت نشد"
	MsgCommentCreated       = "دیدگاه شما ثبت شد و پس از تایید نمایش داده می‌شود"
	MsgCommentUpdated       = "دیدگاه به‌روزرسانی شد"
	MsgCommentDeleted       = "دیدگاه حذف شد"
	MsgCommentApproved      = "دیدگاه تایید شد"
	MsgCommentRejected      = "دیدگاه رد شد"
	MsgCommentAlreadyDone   = "این دیدگاه قبلا تایید شده است"
	MsgCommentAlreadyGone   = "این دیدگاه قبلا رد شده است"
	MsgCommentOwnerOnly     = "فقط نویسنده دیدگاه اجازه ویرایش دارد"
	MsgCommentContent       = "متن دیدگاه الزامی است"
	MsgCommentRating        = "امتیاز باید بین صفر و پنج باشد"
	MsgTopicNotFound        = "موضوع یافت نشد"
	MsgTopicCreated         = "موضوع ایجاد شد"
	MsgTopicUpdated         = "موضوع به‌روزرسانی شد"
	MsgTopicDeleted         = "موضوع حذف شد"
	MsgTopicExists          = "موضوعی با این نام وجود دارد"
	MsgTopicNameRequired    = "نام موضوع الزامی است"
	MsgTopicNestedParent    = "موضوع والد نمی‌تواند خودش زیرموضوع باشد"
	MsgTopicFollowed        = "موضوع دنبال شد"
	MsgTopicUnfollowed      = "دنبال کردن موضوع لغو شد"
	MsgLiked                = "پست پسندیده شد"
	MsgUnliked              = "پسندیدن پست لغو شد"
	MsgListNotFound         = "فهرست یافت نشد"
	MsgListCreated          = "فهرست ایجاد شد"
	MsgListUpdated          = "فهرست به‌روزرسانی شد"
	MsgListDeleted          = "فهرست حذف شد"
	MsgListExists           = "فهرستی با این نام دارید"
	MsgListNameRequired     = "نام فهرست الزامی است"
	MsgListOwnerOnly        = "فقط صاحب فهرست اجازه این کار را دارد"
	MsgListPostAdded        = "پست به فهرست اضافه شد"
	MsgListPostRemoved      = "پست از فهرست حذف شد"
	MsgNotifNotFound        = "اعلان یافت نشد"
	MsgNotifRead            = "اعلان خوانده شد"
	MsgUploadFieldRequired  = "فایلی برای بارگذاری یافت نشد"
	MsgUploadBadType        = "نوع فایل پشتیبانی نمی‌شود"
	MsgUploadDone           = "فایل با موفقیت بارگذاری شد"
	MsgRoleInvalid          = "نقش درخواستی نامعتبر است"
	MsgUserBannedDone       = "کاربر مسدود شد"
	MsgUserUnbannedDone     = "مسدودیت کاربر برداشته شد"
	MsgRoleChanged          = "نقش کاربر تغییر کرد"

	// Notification bodies (stored per recipient).
	MsgNotifNewFollower = "%s شما را دنبال کرد"
	MsgNotifNewLike     = "%s پست «%s» را پسندید"
	MsgNotifNewComment  = "%s برای پست «%s» دیدگاه گذاشت"
	MsgNotifNewReply    = "%s به دیدگاه شما پاسخ داد"
	MsgNotifNewPost     = "%s پست جدیدی منتشر کرد: «%s»"
	MsgNotifPublished   = "پست «%s» توسط %s منتشر شد"
)
