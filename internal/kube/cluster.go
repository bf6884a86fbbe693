package kube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/remotecommand"
	utilexec "k8s.io/client-go/util/exec"

	"github.com/bianoble/envsel/internal/execute"
)

// Options configures how a Cluster connects.
type Options struct {
	// Kubeconfig is an explicit kubeconfig path. Empty uses the default
	// loading rules ($KUBECONFIG, ~/.kube/config), then in-cluster config.
	Kubeconfig string
	// Context overrides the kubeconfig's current context.
	Context string
	// Stderr receives the remote command's standard error. Nil means
	// os.Stderr.
	Stderr io.Writer
}

// Cluster is a Client backed by a real API server.
type Cluster struct {
	clientset  kubernetes.Interface
	restConfig *rest.Config
	namespace  string
	stderr     io.Writer
}

// NewCluster connects lazily: no request is made until a pod is listed.
func NewCluster(opts Options) (*Cluster, error) {
	restCfg, namespace, err := buildRESTConfig(opts.Kubeconfig, opts.Context)
	if err != nil {
		return nil, err
	}
	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes client: %w", err)
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Cluster{clientset: clientset, restConfig: restCfg, namespace: namespace, stderr: stderr}, nil
}

func buildRESTConfig(kubeconfigPath, kubeContext string) (*rest.Config, string, error) {
	kubeconfigPath = strings.TrimSpace(kubeconfigPath)
	kubeContext = strings.TrimSpace(kubeContext)

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		loadingRules = &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfigPath}
	}
	overrides := &clientcmd.ConfigOverrides{}
	if kubeContext != "" {
		overrides.CurrentContext = kubeContext
	}

	cc := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)
	restCfg, err := cc.ClientConfig()
	if err != nil {
		// No usable kubeconfig; try in-cluster configuration unless the user
		// asked for a specific file.
		if kubeconfigPath == "" {
			inCluster, inErr := rest.InClusterConfig()
			if inErr == nil {
				namespace, _, _ := cc.Namespace()
				return inCluster, namespace, nil
			}
		}
		return nil, "", fmt.Errorf("load kubeconfig: %w", err)
	}

	namespace, _, err := cc.Namespace()
	if err != nil {
		return nil, "", fmt.Errorf("resolve kubernetes namespace: %w", err)
	}
	return restCfg, namespace, nil
}

func (c *Cluster) resolveNamespace(namespace string) string {
	if namespace != "" {
		return namespace
	}
	if c.namespace != "" {
		return c.namespace
	}
	return metav1.NamespaceDefault
}

func (c *Cluster) Pods(ctx context.Context, namespace, selector string) ([]string, error) {
	list, err := c.clientset.CoreV1().Pods(c.resolveNamespace(namespace)).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(list.Items))
	for _, pod := range list.Items {
		names = append(names, pod.Name)
	}
	slices.Sort(names)
	return names, nil
}

func (c *Cluster) Exec(ctx context.Context, req ExecRequest) (string, error) {
	if len(req.Command) == 0 {
		return "", fmt.Errorf("exec in pod %s: empty command", req.Pod)
	}

	request := c.clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(req.Pod).
		Namespace(c.resolveNamespace(req.Namespace)).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: req.Container,
			Command:   req.Command,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(c.restConfig, "POST", request.URL())
	if err != nil {
		return "", fmt.Errorf("exec in pod %s: %w", req.Pod, err)
	}

	var stdout bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: c.stderr,
	})
	if err != nil {
		var exitErr utilexec.ExitError
		if errors.As(err, &exitErr) {
			return "", &execute.CommandError{Program: req.Command[0], ExitCode: exitErr.ExitStatus()}
		}
		return "", fmt.Errorf("exec in pod %s: %w", req.Pod, err)
	}
	return execute.TrimOutput(stdout.String()), nil
}
