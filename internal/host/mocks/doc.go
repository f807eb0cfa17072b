// Package mocks provides testify mocks for the host capability interfaces.
package mocks

// NewActiveDocument wires a MockContextProvider that reports doc as active,
// with doc backed by the given transaction manager. Callers still set
// expectations on the transaction manager and its transactions.
func NewActiveDocument(name string, tm *MockTransactionManager) (*MockContextProvider, *MockDocument) {
	db := &MockDatabase{}
	db.On("TransactionManager").Return(tm).Maybe()

	doc := &MockDocument{}
	doc.On("Name").Return(name).Maybe()
	doc.On("Database").Return(db).Maybe()
	doc.On("Editor").Return(&MockEditor{}).Maybe()

	provider := &MockContextProvider{}
	provider.On("CurrentDocument").Return(doc, true).Maybe()
	return provider, doc
}

// NewNoActiveDocument returns a MockContextProvider with no active document.
func NewNoActiveDocument() *MockContextProvider {
	provider := &MockContextProvider{}
	provider.On("CurrentDocument").Return(nil, false)
	return provider
}
