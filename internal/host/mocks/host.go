package mocks

import (
	"github.com/atlanticdynamic/activetx/internal/host"
	"github.com/stretchr/testify/mock"
)

// interface guards
var (
	_ host.ContextProvider    = (*MockContextProvider)(nil)
	_ host.Document           = (*MockDocument)(nil)
	_ host.Editor             = (*MockEditor)(nil)
	_ host.Database           = (*MockDatabase)(nil)
	_ host.TransactionManager = (*MockTransactionManager)(nil)
	_ host.Transaction        = (*MockTransaction)(nil)
)

// MockContextProvider is a mock implementation of host.ContextProvider
type MockContextProvider struct {
	mock.Mock
}

func (m *MockContextProvider) CurrentDocument() (host.Document, bool) {
	args := m.Called()
	doc, _ := args.Get(0).(host.Document)
	return doc, args.Bool(1)
}

// MockDocument is a mock implementation of host.Document
type MockDocument struct {
	mock.Mock
}

func (m *MockDocument) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDocument) Editor() host.Editor {
	args := m.Called()
	ed, _ := args.Get(0).(host.Editor)
	return ed
}

func (m *MockDocument) Database() host.Database {
	args := m.Called()
	db, _ := args.Get(0).(host.Database)
	return db
}

// MockEditor is a mock implementation of host.Editor
type MockEditor struct {
	mock.Mock
}

func (m *MockEditor) WriteMessage(format string, args ...any) {
	m.Called(format, args)
}

// MockDatabase is a mock implementation of host.Database
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) TransactionManager() host.TransactionManager {
	args := m.Called()
	tm, _ := args.Get(0).(host.TransactionManager)
	return tm
}

// MockTransactionManager is a mock implementation of host.TransactionManager
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) StartTransaction() (host.Transaction, error) {
	args := m.Called()
	tx, _ := args.Get(0).(host.Transaction)
	return tx, args.Error(1)
}

// MockTransaction is a mock implementation of host.Transaction
type MockTransaction struct {
	mock.Mock
}

func (m *MockTransaction) Get(key []byte) ([]byte, error) {
	args := m.Called(key)
	val, _ := args.Get(0).([]byte)
	return val, args.Error(1)
}

func (m *MockTransaction) Has(key []byte) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransaction) Put(key, value []byte) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockTransaction) Delete(key []byte) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockTransaction) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTransaction) Release() error {
	args := m.Called()
	return args.Error(0)
}
