package config

import (
	"github.com/datastax/urlquery/log"
	"github.com/datastax/urlquery/types"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

func (o *ConfigMock) Default() *ConfigMock {
	o.On("Resources").Return([]Resource{OrdersResource()})
	o.On("Logger").Return(log.NewZapLogger(zap.NewExample()))
	return o
}

func (o *ConfigMock) Resources() []Resource {
	args := o.Called()
	return args.Get(0).([]Resource)
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}

// OrdersResource is the resource used across tests: orders filtered by user, order id and price.
func OrdersResource() Resource {
	return Resource{
		Name:      "orders",
		Statement: "SELECT * FROM orders",
		Columns: []Column{
			{Name: "userId", Type: types.TypeInt},
			{Name: "orderId", Type: types.TypeInt},
			{Name: "price", Type: types.TypeDouble},
			{Name: "status", Type: types.TypeText},
		},
		Required: []string{"userId"},
		Naming:   SnakeCase,
	}
}
