package alert

import "fmt"

// Kind identifies which Korean-locale template to render (§6).
type Kind int

const (
	KindLTEFault Kind = iota
	KindLTEResumed
	KindRedAbnormalCurrent
	KindGreenAbnormalCurrent
	KindRS485CommError
	KindMalformedPayload
	KindBrokerConnected
	KindBrokerDisconnected
)

// Data supplies the template placeholders. Not every field is used by
// every Kind.
type Data struct {
	Place  string
	Type   string
	ID     int
	Ampere float64
}

// Render returns the literal Korean alert text for kind, exactly as
// specified in spec.md §6.
func Render(kind Kind, d Data) string {
	switch kind {
	case KindLTEFault:
		return fmt.Sprintf("'%s' 장소에 설치된 장비(%s-%d) \n셀룰러(LTE) 오류가 발생했습니다.", d.Place, d.Type, d.ID)
	case KindLTEResumed:
		return fmt.Sprintf("'%s' 장소에 설치된 장비(%s-%d) \n셀룰러(LTE)가 재개되었습니다.", d.Place, d.Type, d.ID)
	case KindRedAbnormalCurrent:
		return fmt.Sprintf("'%s' 장소에 설치된 장비(%s-%d) \n적색등 비정상 전류 \n\n전류: %vmA", d.Place, d.Type, d.ID, d.Ampere)
	case KindGreenAbnormalCurrent:
		return fmt.Sprintf("'%s' 장소에 설치된 장비(%s-%d) \n녹색등 비정상 전류 \n\n전류: %vmA", d.Place, d.Type, d.ID, d.Ampere)
	case KindRS485CommError:
		return fmt.Sprintf("'%s' 장소에 설치된 장비(%s-%d) \n제어부와 RS485 통신 오류가 발생했습니다.", d.Place, d.Type, d.ID)
	case KindMalformedPayload:
		return fmt.Sprintf("장비(%s-%d) 데이터 형식이 맞지가 않습니다.", d.Type, d.ID)
	case KindBrokerConnected:
		return "MQTT Broker 정상적으로 연결되었습니다."
	case KindBrokerDisconnected:
		return "MQTT Broker 연결이 끊어졌습니다."
	default:
		return ""
	}
}
