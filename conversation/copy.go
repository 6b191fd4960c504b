package conversation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Button labels. Closed-choice states match inbound events against these, so
// they double as the dialog's action tokens.
const (
	BtnLoggedIn       = "Я авторизовался ✅"
	BtnLoginAgain     = "Авторизоваться заново🔄"
	BtnBack           = "Вернуться назад↩️"
	BtnStock          = "Узнать складские остатки"
	BtnForecast       = "Сформировать прогноз"
	BtnTrack          = "Отслеживать товары"
	BtnMonth          = "Месяц"
	BtnQuarter        = "Квартал"
	BtnYear           = "Год"
	BtnMakePurchase   = "Сформировать закупку"
	BtnEditFields     = "Редактировать поля"
	BtnFinishEditing  = "Закончить редактирование"
	BtnTrackAdd       = "Добавить товар"
	BtnTrackDelete    = "Удалить товар"
	BtnPrev           = "←"
	BtnNext           = "→"
	BtnUploadStock    = "Загрузить складские остатки"
	BtnUploadTurnover = "Загрузить обороты по счету"
)

// Copy is the reply text catalog. Deployments can override individual entries
// from a YAML file without rebuilding.
type Copy struct {
	Welcome        string `yaml:"welcome"`
	LoginLink      string `yaml:"login_link"`
	NotAuthorized  string `yaml:"not_authorized"`
	LoginSuccess   string `yaml:"login_success"`
	LoggedOut      string `yaml:"logged_out"`
	MenuPrompt     string `yaml:"menu_prompt"`
	Misunderstood  string `yaml:"misunderstood"`
	UpstreamFailed string `yaml:"upstream_failed"`

	AdminWelcome string `yaml:"admin_welcome"`
	AdminPrompt  string `yaml:"admin_prompt"`

	StockItemPrompt    string `yaml:"stock_item_prompt"`
	ForecastItemPrompt string `yaml:"forecast_item_prompt"`
	SingleMatch        string `yaml:"single_match"`
	ChosenProduct      string `yaml:"chosen_product"`
	ChooseProduct      string `yaml:"choose_product"`
	InvalidChoice      string `yaml:"invalid_choice"`
	ProductNotFound    string `yaml:"product_not_found"`

	PeriodPrompt       string `yaml:"period_prompt"`
	PeriodInvalid      string `yaml:"period_invalid"`
	PeriodChosen       string `yaml:"period_chosen"`
	SufficientStock    string `yaml:"sufficient_stock"`
	ConsumptionCaption string `yaml:"consumption_caption"`
	ForecastCaption    string `yaml:"forecast_caption"`

	DocumentCaption string `yaml:"document_caption"`
	DocumentWarning string `yaml:"document_warning"`
	FieldFilled     string `yaml:"field_filled"`
	FieldEmpty      string `yaml:"field_empty"`
	FieldUpdated    string `yaml:"field_updated"`
	FieldPosition   string `yaml:"field_position"`
	EditFinished    string `yaml:"edit_finished"`

	TrackHeader       string `yaml:"track_header"`
	TrackEmpty        string `yaml:"track_empty"`
	TrackAddPrompt    string `yaml:"track_add_prompt"`
	TrackDeletePrompt string `yaml:"track_delete_prompt"`
	TrackAdded        string `yaml:"track_added"`
	TrackExists       string `yaml:"track_exists"`
	TrackRemoved      string `yaml:"track_removed"`
	PagePosition      string `yaml:"page_position"`

	UploadStockPrompt    string `yaml:"upload_stock_prompt"`
	UploadTurnoverPrompt string `yaml:"upload_turnover_prompt"`
	UploadOnlyXlsx       string `yaml:"upload_only_xlsx"`
	UploadOK             string `yaml:"upload_ok"`
	UploadFailed         string `yaml:"upload_failed"`
}

// DefaultCopy returns the built-in reply texts.
func DefaultCopy() *Copy {
	return &Copy{
		Welcome:        "Добро пожаловать в бота для автоматизации покупок!",
		LoginLink:      "Перейдите по ссылке для авторизации, для того чтобы продолжить работу в боте:\n%s\nПосле авторизации нажмите кнопку ниже.",
		NotAuthorized:  "Вы не авторизованы ❌",
		LoginSuccess:   "Вы успешно авторизовались в боте! ✅",
		LoggedOut:      "Вы успешно вышли из учетной записи!",
		MenuPrompt:     "Пожалуйста, выберите одно из предложенных ниже действий или опишите, что Вы хотите сделать сообщением.",
		Misunderstood:  "Не понял Вас, выберите одно из предложенных ниже действий или опишите по-другому, что Вы хотите сделать.",
		UpstreamFailed: "Не удалось выполнить запрос, попробуйте еще раз.",

		AdminWelcome: "Добро пожаловать в Админ-панель бота для автоматизации покупок!",
		AdminPrompt:  "Пожалуйста, выберите одно из предложенных ниже действий.",

		StockItemPrompt:    "Введите название товара, чтобы узнать его остаток на складе.",
		ForecastItemPrompt: "Введите название товара для которого необходимо сформировать прогноз.",
		SingleMatch:        "Найден только 1 подходящий товар, поэтому он был выбран:\n\n%s",
		ChosenProduct:      "Был выбран товар:\n\n%s",
		ChooseProduct:      "Пожалуйста, выберите товар из списка, нажав соответствующую кнопку с номером:",
		InvalidChoice:      "Товара с таким номером нет.",
		ProductNotFound:    "Данный товар не найден, пожалуйста введите название другого товара.",

		PeriodPrompt:       "На какой период вы хотите сформировать прогноз?",
		PeriodInvalid:      "Такого периода для прогноза нет.\n\nВыберите пожалуйста период формирования прогноза из предложенных ниже вариантов.",
		PeriodChosen:       "Период прогноза: %s",
		SufficientStock:    "На складе имеется достаточное количество товаров для данного срока.",
		ConsumptionCaption: "Статистика по потреблению.",
		ForecastCaption:    "Прогнозируемое потребление товара.",

		DocumentCaption: "Файл со сформированной закупкой.",
		DocumentWarning: "Возможно данная закупка не соответствует 44-ФЗ.",
		FieldFilled:     "Поле \"%s\" имеет значение:\n%s\n\nЕсли Вы хотите изменить его, отправьте новое значение сообщением.\n\nДля переключения между редактируемыми полями используйте кнопки ниже.",
		FieldEmpty:      "Поле \"%s\" не заполнено.\n\nЕсли Вы хотите заполнить его, отправьте значение сообщением.\n\nДля переключения между редактируемыми полями используйте кнопки ниже.",
		FieldUpdated:    "Значение поля было изменено.",
		FieldPosition:   "Вы находитесь на поле под номером %d из %d",
		EditFinished:    "Редактирование закончено.",

		TrackHeader:       "Список товаров, для которых отслеживаются остатки:",
		TrackEmpty:        "У Вас пока что нет отслеживаемых товаров.\n\nЧтобы добавить товар воспользуйтесь кнопками ниже.",
		TrackAddPrompt:    "Введите название товара для отслеживания:",
		TrackDeletePrompt: "Пожалуйста, выберите товар для удаления из списка, нажав соответствующую кнопку с номером.",
		TrackAdded:        "Товар был успешно добавлен.",
		TrackExists:       "Данный товар уже отслеживается.",
		TrackRemoved:      "Товар был успешно удален.",
		PagePosition:      "Вы находитесь на странице под номером %d из %d",

		UploadStockPrompt:    "Загрузите файл, содержащий складские остатки в формате xlsx.",
		UploadTurnoverPrompt: "Загрузите файл, содержащий обороты по счету в формате xlsx.",
		UploadOnlyXlsx:       "Можно загрузить только файлы в формате xlsx, попробуйте еще раз.",
		UploadOK:             "Файл успешно загружен.",
		UploadFailed:         "Ошибка при загрузке файла, попробуйте еще раз.",
	}
}

// LoadCopy returns the default catalog with entries overridden from the given
// YAML file. An empty path returns the defaults unchanged.
func LoadCopy(path string) (*Copy, error) {
	copyCatalog := DefaultCopy()
	if path == "" {
		return copyCatalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[LoadCopy] read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, copyCatalog); err != nil {
		return nil, fmt.Errorf("[LoadCopy] parse %s: %w", path, err)
	}
	return copyCatalog, nil
}
