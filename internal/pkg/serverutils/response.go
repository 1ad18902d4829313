package serverutils

type ErrorBody struct {
	Error string `json:"error"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Error: message}
}

func MessageResponse(message string) MessageBody {
	return MessageBody{Message: message}
}
