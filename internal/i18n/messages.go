package i18n

var catalog = map[Language]map[string]string{
	EN: {
		"error.generic":         "Something went wrong. Please try again.",
		"error.invalid":         "Please check the entered data",
		"error.notFound":        "Not found",
		"error.forbidden":       "You do not have access to this resource",
		"error.unauthenticated": "Please sign in",
		"error.exists":          "Already exists",
		"error.emptyMessage":    "Message cannot be empty",
		"error.required":        "Please fill in all required fields",
		"error.contactRequired": "Please provide email or phone number",
		"error.discount":        "Discount price must be lower than the price",
		"error.blocked":         "Posting is disabled for your account",
		"error.dailyLimit":      "You have reached the daily ad limit",
		"error.itemNotFound":    "Item not found",
		"error.slugTaken":       "An entry with this name already exists",

		"auth.emailAlreadyInUse":                    "This email is already registered",
		"auth.invalidEmail":                         "Invalid email address",
		"auth.weakPassword":                         "Password is too weak",
		"auth.userNotFound":                         "No account found with this email",
		"auth.wrongPassword":                        "Incorrect password",
		"auth.tooManyRequests":                      "Too many attempts. Try again later",
		"auth.networkError":                         "Network error. Check your connection",
		"auth.popupClosed":                          "Sign-in window was closed",
		"auth.accountExistsWithDifferentCredential": "An account already exists with a different sign-in method",
		"auth.operationNotAllowed":                  "This sign-in method is disabled",
		"auth.configurationNotFound":                "Authentication is not configured",
		"auth.unknownError":                         "Authentication failed",

		"status.on_sale":  "On Sale",
		"status.reserved": "Reserved",
		"status.sold":     "Sold",
		"status.pending":  "Pending",

		"partner.admin": "Admin",
		"limit.info":    "You can post up to {limit} ads per day",
	},
	RU: {
		"error.generic":         "Что-то пошло не так. Попробуйте ещё раз.",
		"error.invalid":         "Проверьте введённые данные",
		"error.notFound":        "Не найдено",
		"error.forbidden":       "Нет доступа",
		"error.unauthenticated": "Пожалуйста, войдите",
		"error.exists":          "Уже существует",
		"error.emptyMessage":    "Сообщение не может быть пустым",
		"error.required":        "Заполните все обязательные поля",
		"error.contactRequired": "Укажите email или номер телефона",
		"error.discount":        "Цена со скидкой должна быть ниже цены",
		"error.blocked":         "Публикация объявлений для вас отключена",
		"error.dailyLimit":      "Достигнут дневной лимит объявлений",
		"error.itemNotFound":    "Товар не найден",
		"error.slugTaken":       "Запись с таким названием уже существует",

		"auth.emailAlreadyInUse":                    "Этот email уже зарегистрирован",
		"auth.invalidEmail":                         "Неверный адрес email",
		"auth.weakPassword":                         "Слишком простой пароль",
		"auth.userNotFound":                         "Аккаунт с таким email не найден",
		"auth.wrongPassword":                        "Неверный пароль",
		"auth.tooManyRequests":                      "Слишком много попыток. Попробуйте позже",
		"auth.networkError":                         "Ошибка сети. Проверьте подключение",
		"auth.popupClosed":                          "Окно входа было закрыто",
		"auth.accountExistsWithDifferentCredential": "Аккаунт уже существует с другим способом входа",
		"auth.operationNotAllowed":                  "Этот способ входа отключён",
		"auth.configurationNotFound":                "Аутентификация не настроена",
		"auth.unknownError":                         "Ошибка аутентификации",

		"status.on_sale":  "В продаже",
		"status.reserved": "Забронировано",
		"status.sold":     "Продано",
		"status.pending":  "На проверке",

		"partner.admin": "Администратор",
		"limit.info":    "Вы можете публиковать до {limit} объявлений в день",
	},
	TR: {
		"error.generic":         "Bir şeyler ters gitti. Lütfen tekrar deneyin.",
		"error.invalid":         "Lütfen girilen bilgileri kontrol edin",
		"error.notFound":        "Bulunamadı",
		"error.forbidden":       "Bu kaynağa erişiminiz yok",
		"error.unauthenticated": "Lütfen giriş yapın",
		"error.exists":          "Zaten mevcut",
		"error.emptyMessage":    "Mesaj boş olamaz",
		"error.required":        "Lütfen tüm zorunlu alanları doldurun",
		"error.contactRequired": "Lütfen e-posta veya telefon numarası girin",
		"error.discount":        "İndirimli fiyat, fiyattan düşük olmalıdır",
		"error.blocked":         "Hesabınız için ilan yayınlama kapalı",
		"error.dailyLimit":      "Günlük ilan sınırına ulaştınız",
		"error.itemNotFound":    "İlan bulunamadı",
		"error.slugTaken":       "Bu isimde bir kayıt zaten var",

		"auth.emailAlreadyInUse":                    "Bu e-posta zaten kayıtlı",
		"auth.invalidEmail":                         "Geçersiz e-posta adresi",
		"auth.weakPassword":                         "Şifre çok zayıf",
		"auth.userNotFound":                         "Bu e-posta ile hesap bulunamadı",
		"auth.wrongPassword":                        "Yanlış şifre",
		"auth.tooManyRequests":                      "Çok fazla deneme. Daha sonra tekrar deneyin",
		"auth.networkError":                         "Ağ hatası. Bağlantınızı kontrol edin",
		"auth.popupClosed":                          "Giriş penceresi kapatıldı",
		"auth.accountExistsWithDifferentCredential": "Bu hesap farklı bir giriş yöntemiyle mevcut",
		"auth.operationNotAllowed":                  "Bu giriş yöntemi devre dışı",
		"auth.configurationNotFound":                "Kimlik doğrulama yapılandırılmamış",
		"auth.unknownError":                         "Kimlik doğrulama başarısız",

		"status.on_sale":  "Satışta",
		"status.reserved": "Rezerve",
		"status.sold":     "Satıldı",
		"status.pending":  "Beklemede",

		"partner.admin": "Yönetici",
		"limit.info":    "Günde en fazla {limit} ilan yayınlayabilirsiniz",
	},
}
