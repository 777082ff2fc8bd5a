package validators

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	useJSONNames(v)
	if err := registerCustom(v); err != nil {
		panic(err)
	}
	return v
}

// Register instala as tags customizadas no validador usado pelo gin nos
// ShouldBind*.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("validators: unexpected gin validator engine %T", binding.Validator.Engine())
	}
	useJSONNames(v)
	return registerCustom(v)
}

func registerCustom(v *validator.Validate) error {
	if err := v.RegisterValidation("ymd", layoutValidator("2006-01-02")); err != nil {
		return err
	}
	return v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || domain.PaymentMethod(s).Valid()
	})
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // "required" cuida do vazio
		}
		_, err := time.Parse(layout, s)
		return err == nil
	}
}

func useJSONNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct devolve campo → mensagem, ou nil quando está tudo certo.
func ValidateStruct(data any) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	return ValidationErrors(err)
}

// ValidationErrors converte um erro do validator (vindo do gin ou de
// ValidateStruct) em campo → mensagem.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = "JSON inválido"
		return out
	}

	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "min":
		return fmt.Sprintf("mínimo %s", fe.Param())
	case "max":
		return fmt.Sprintf("máximo %s", fe.Param())
	case "gt":
		return fmt.Sprintf("deve ser maior que %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("deve ser um de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "ymd":
		return "use o formato AAAA-MM-DD"
	case "payment_method":
		return "forma de pagamento inválida"
	default:
		return "valor inválido"
	}
}

// FormatValidationErrors junta as mensagens numa linha, em ordem de campo.
func FormatValidationErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, errs[f]))
	}
	return strings.Join(msgs, "; ")
}
